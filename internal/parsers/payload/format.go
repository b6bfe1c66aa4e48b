package payload

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/joalopez1206/suchai/internal/types"
)

// Payload records carry no self-description: the schema's DataOrder string
// drives both their binary layout and their text rendering. Tokens follow
// printf conventions: %f is a 4-byte float, %d/%u/%i a 4-byte integer, %hi a
// 2-byte integer and %s a fixed PayloadStrSize string.

// TokenSize returns the number of record bytes one type token consumes.
func TokenSize(token string) (int, error) {
	if len(token) < 2 || token[0] != '%' {
		return 0, fmt.Errorf("bad payload type token %q", token)
	}
	switch token[1] {
	case 'f':
		return 4, nil
	case 'u', 'i', 'd':
		return 4, nil
	case 'h':
		return 2, nil
	case 's':
		return types.PayloadStrSize, nil
	}
	return 0, fmt.Errorf("bad payload type token %q", token)
}

// RecordSize computes the record size described by a DataOrder string.
func RecordSize(dataOrder string) (int, error) {
	size := 0
	for _, token := range strings.Fields(dataOrder) {
		n, err := TokenSize(token)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// Fprint renders one record as a CSV line driven by the schema's DataOrder.
func Fprint(w io.Writer, data []byte, schema *types.DataMap) error {
	if schema == nil {
		return fmt.Errorf("payload schema is nil")
	}
	endian := binary.LittleEndian
	for _, token := range strings.Fields(schema.DataOrder) {
		n, err := TokenSize(token)
		if err != nil {
			return err
		}
		if len(data) < n {
			return fmt.Errorf("payload record truncated: %d bytes left, token %q needs %d",
				len(data), token, n)
		}
		switch token[1] {
		case 'f':
			fmt.Fprintf(w, "%v,", types.Value32(endian.Uint32(data)).Float())
		case 'u':
			fmt.Fprintf(w, "%d,", endian.Uint32(data))
		case 'i', 'd':
			fmt.Fprintf(w, "%d,", int32(endian.Uint32(data)))
		case 'h':
			fmt.Fprintf(w, "%d,", int16(endian.Uint16(data)))
		case 's':
			fmt.Fprintf(w, "%s,", fixedString(data[:n]))
		}
		data = data[n:]
	}
	_, err := fmt.Fprintln(w)
	return err
}

// FprintNamed renders one record as "name: value" lines using the schema's
// VarNames alongside DataOrder.
func FprintNamed(w io.Writer, data []byte, schema *types.DataMap) error {
	if schema == nil {
		return fmt.Errorf("payload schema is nil")
	}
	names := strings.Fields(schema.VarNames)
	endian := binary.LittleEndian
	for i, token := range strings.Fields(schema.DataOrder) {
		n, err := TokenSize(token)
		if err != nil {
			return err
		}
		if len(data) < n {
			return fmt.Errorf("payload record truncated: %d bytes left, token %q needs %d",
				len(data), token, n)
		}
		name := "?"
		if i < len(names) {
			name = names[i]
		}
		switch token[1] {
		case 'f':
			fmt.Fprintf(w, "%s: %v\n", name, types.Value32(endian.Uint32(data)).Float())
		case 'u':
			fmt.Fprintf(w, "%s: %d\n", name, endian.Uint32(data))
		case 'i', 'd':
			fmt.Fprintf(w, "%s: %d\n", name, int32(endian.Uint32(data)))
		case 'h':
			fmt.Fprintf(w, "%s: %d\n", name, int16(endian.Uint16(data)))
		case 's':
			fmt.Fprintf(w, "%s: %s\n", name, fixedString(data[:n]))
		}
		data = data[n:]
	}
	return nil
}

// Header renders the schema's field names as a CSV header line.
func Header(w io.Writer, schema *types.DataMap) error {
	if schema == nil {
		return fmt.Errorf("payload schema is nil")
	}
	for _, name := range strings.Fields(schema.VarNames) {
		fmt.Fprintf(w, "%s,", name)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func fixedString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}

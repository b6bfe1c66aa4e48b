package payload

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/types"
)

func TestRecordSize(t *testing.T) {
	testCases := []struct {
		name      string
		dataOrder string
		want      int
		wantErr   bool
	}{
		{name: "ints and floats", dataOrder: "%u %f %f", want: 12},
		{name: "shorts", dataOrder: "%u %hi %hi", want: 8},
		{name: "string field", dataOrder: "%u %s", want: 4 + types.PayloadStrSize},
		{name: "empty", dataOrder: "", want: 0},
		{name: "bad token", dataOrder: "%q", wantErr: true},
		{name: "not a token", dataOrder: "f", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RecordSize(tc.dataOrder)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// buildRecord packs a timestamp, a float and a short the way a housekeeping
// sample would look on media.
func buildRecord() []byte {
	data := make([]byte, 10)
	endian := binary.LittleEndian
	endian.PutUint32(data[0:], 1680000000)
	endian.PutUint32(data[4:], math.Float32bits(36.5))
	var current int16 = -12
	endian.PutUint16(data[8:], uint16(current))
	return data
}

var testSchema = types.DataMap{
	Table:     "hk_data",
	Size:      10,
	SysIndex:  types.DrpTemp,
	DataOrder: "%u %f %hi",
	VarNames:  "timestamp temp current",
}

func TestFprintCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, buildRecord(), &testSchema))
	assert.Equal(t, "1680000000,36.5,-12,\n", buf.String())
}

func TestFprintNamed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FprintNamed(&buf, buildRecord(), &testSchema))
	assert.Equal(t, "timestamp: 1680000000\ntemp: 36.5\ncurrent: -12\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Header(&buf, &testSchema))
	assert.Equal(t, "timestamp,temp,current,\n", buf.String())
}

func TestFprintTruncatedRecord(t *testing.T) {
	var buf bytes.Buffer
	err := Fprint(&buf, make([]byte, 4), &testSchema)
	assert.Error(t, err)
}

func TestFprintStringField(t *testing.T) {
	schema := types.DataMap{
		Size:      uint16(types.PayloadStrSize),
		DataOrder: "%s",
		VarNames:  "name",
	}
	record := make([]byte, types.PayloadStrSize)
	copy(record, "beacon")

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, record, &schema))
	assert.Equal(t, "beacon,\n", buf.String())
}

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joalopez1206/suchai/internal/parsers/payload"
)

var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Manage the payload sample stores",
}

var payloadListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the payload schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		for p, schema := range repo.DataMap() {
			cursor, err := repo.PayloadCursor(p)
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%-12s\t%d bytes\t%d samples\t%s\n",
				p, schema.Table, schema.Size, cursor, schema.VarNames)
		}
		return nil
	},
}

var payloadAddCmd = &cobra.Command{
	Use:   "add <payload> <hex-record>",
	Short: "Append a raw sample record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePayloadID(args[0])
		if err != nil {
			return err
		}
		data, err := hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("bad hex record: %w", err)
		}
		return repo.AddPayloadSample(p, data)
	},
}

var payloadGetCmd = &cobra.Command{
	Use:   "get <payload> <index>",
	Short: "Print one sample",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePayloadID(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad sample index %q: %w", args[1], err)
		}
		data, err := repo.GetPayloadSample(p, index)
		if err != nil {
			return err
		}
		return payload.FprintNamed(os.Stdout, data, &repo.DataMap()[p])
	},
}

var payloadExportCmd = &cobra.Command{
	Use:   "export <payload>",
	Short: "Dump every stored sample as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePayloadID(args[0])
		if err != nil {
			return err
		}
		schema := &repo.DataMap()[p]
		cursor, err := repo.PayloadCursor(p)
		if err != nil {
			return err
		}
		if err := payload.Header(os.Stdout, schema); err != nil {
			return err
		}
		for i := 0; i < cursor; i++ {
			data, err := repo.GetPayloadSample(p, i)
			if err != nil {
				return err
			}
			if err := payload.Fprint(os.Stdout, data, schema); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	payloadCmd.AddCommand(payloadListCmd, payloadAddCmd, payloadGetCmd, payloadExportCmd)
}

func parsePayloadID(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad payload id %q: %w", s, err)
	}
	if p < 0 || p >= len(repo.DataMap()) {
		return 0, fmt.Errorf("no payload %d", p)
	}
	return p, nil
}

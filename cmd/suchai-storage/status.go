package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joalopez1206/suchai/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read and write system status variables",
}

var statusShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every status variable",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range types.StatusVars {
			value, err := repo.GetStatus(v.Address)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s %s\n", v.Name, formatValue(v, value))
		}
		return nil
	},
}

var statusGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print one status variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok := types.FindStatusVar(args[0])
		if !ok {
			return fmt.Errorf("no status variable named %q", args[0])
		}
		value, err := repo.GetStatus(v.Address)
		if err != nil {
			return err
		}
		fmt.Println(formatValue(v, value))
		return nil
	},
}

var statusSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Store one status variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok := types.FindStatusVar(args[0])
		if !ok {
			return fmt.Errorf("no status variable named %q", args[0])
		}
		value, err := parseValue(v, args[1])
		if err != nil {
			return err
		}
		return repo.SetStatus(v.Address, value)
	},
}

func init() {
	statusCmd.AddCommand(statusShowCmd, statusGetCmd, statusSetCmd)
}

func formatValue(v types.StatusVar, value types.Value32) string {
	switch v.Type {
	case types.VarFloat:
		return strconv.FormatFloat(float64(value.Float()), 'g', -1, 32)
	case types.VarUint:
		return strconv.FormatUint(uint64(value.Uint()), 10)
	default:
		return strconv.FormatInt(int64(value.Int()), 10)
	}
}

func parseValue(v types.StatusVar, s string) (types.Value32, error) {
	switch v.Type {
	case types.VarFloat:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return 0, fmt.Errorf("bad float %q: %w", s, err)
		}
		return types.FloatValue(float32(f)), nil
	default:
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("bad integer %q: %w", s, err)
		}
		return types.IntValue(int32(i)), nil
	}
}

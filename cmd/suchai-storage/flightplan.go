package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	fpExecutions int32
	fpPeriod     int32
)

var fpCmd = &cobra.Command{
	Use:   "fp",
	Short: "Manage the flight plan",
}

var fpSetCmd = &cobra.Command{
	Use:   "set <unixtime> <command> [args...]",
	Short: "Schedule a command",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		when, err := parseUnixtime(args[0])
		if err != nil {
			return err
		}
		return repo.SetFP(when, args[1], strings.Join(args[2:], " "), fpExecutions, fpPeriod)
	},
}

var fpGetCmd = &cobra.Command{
	Use:   "get <unixtime>",
	Short: "Print the command scheduled at a time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		when, err := parseUnixtime(args[0])
		if err != nil {
			return err
		}
		entry, err := repo.GetFP(when)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\t%s\t%d\t%d\t%d\n", entry.Unixtime, entry.Cmd, entry.Args,
			entry.Executions, entry.Periodical, entry.Node)
		return nil
	},
}

var fpShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the live flight plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.ShowFP(os.Stdout)
	},
}

var fpDeleteCmd = &cobra.Command{
	Use:   "delete <unixtime>",
	Short: "Delete the command scheduled at a time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		when, err := parseUnixtime(args[0])
		if err != nil {
			return err
		}
		return repo.DeleteFP(when)
	},
}

var fpPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every command already due and recount the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.PurgeFP()
	},
}

var fpResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every flight plan entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.ResetFP()
	},
}

func init() {
	fpSetCmd.Flags().Int32Var(&fpExecutions, "executions", 1, "executions per periodic cycle")
	fpSetCmd.Flags().Int32Var(&fpPeriod, "period", 0, "seconds between executions, 0 for one-shot")
	fpCmd.AddCommand(fpSetCmd, fpGetCmd, fpShowCmd, fpDeleteCmd, fpPurgeCmd, fpResetCmd)
}

func parseUnixtime(s string) (int32, error) {
	t, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad unixtime %q: %w", s, err)
	}
	return int32(t), nil
}

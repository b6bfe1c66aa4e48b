package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect and reset the storage backend",
}

var storageInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the backend configuration and media devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("mode:                 %s\n", cfg.Mode)
		fmt.Printf("triple write:         %v\n", cfg.TripleWrite)
		fmt.Printf("tlb location:         %s\n", cfg.TLBLocation)
		fmt.Printf("section size:         %d\n", cfg.SectionSize)
		fmt.Printf("page size:            %d\n", cfg.PageSize)
		fmt.Printf("fram size:            %d\n", cfg.FramSize)
		fmt.Printf("fp max entries:       %d\n", cfg.FPMaxEntries)
		fmt.Printf("sections per payload: %d\n", cfg.SectionsPerPayload)
		for _, dev := range infos {
			info := dev.Info()
			fmt.Printf("device:               %s serial=%s path=%s\n", info.Type, info.Serial, info.Path)
		}
		return nil
	},
}

var storageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Dump the media operation counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return media.WriteTo(os.Stdout)
	},
}

var storageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase every payload store and the flight plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.DeleteMemorySections()
	},
}

var timeCmd = &cobra.Command{
	Use:   "time [unixtime]",
	Short: "Print or set the mission clock",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			when, err := parseUnixtime(args[0])
			if err != nil {
				return err
			}
			repo.SetTime(int64(when))
		}
		now := repo.Time()
		fmt.Printf("%s (%d)\n", time.Unix(now, 0).UTC().Format("2006-01-02 15:04:05 UTC"), now)
		return nil
	},
}

func init() {
	storageCmd.AddCommand(storageInfoCmd, storageStatsCmd, storageResetCmd)
}

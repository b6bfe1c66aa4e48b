package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joalopez1206/suchai/internal/config"
	"github.com/joalopez1206/suchai/internal/device"
	"github.com/joalopez1206/suchai/internal/interfaces"
	"github.com/joalopez1206/suchai/internal/metrics"
	"github.com/joalopez1206/suchai/internal/repository"
	"github.com/joalopez1206/suchai/internal/storage/bolt"
	"github.com/joalopez1206/suchai/internal/storage/flash"
	"github.com/joalopez1206/suchai/internal/types"
)

var (
	cfgFile string
	verbose bool

	cfg   *config.Config
	log   *zap.Logger
	media *metrics.Media
	repo  *repository.Repository

	// Devices and stores that need closing after the command runs.
	closers []io.Closer
	infos   []interfaces.MediaInfo
)

// defaultDataMap describes the payload sample stores of the hosted build:
// record layouts and the status variable carrying each write cursor.
var defaultDataMap = []types.DataMap{
	{
		Table:     "temp_data",
		Size:      8,
		SysIndex:  types.DrpTemp,
		DataOrder: "%u %hi %hi",
		VarNames:  "timestamp obc_temp_1 obc_temp_2",
	},
	{
		Table:     "ads_data",
		Size:      28,
		SysIndex:  types.DrpAds,
		DataOrder: "%u %f %f %f %f %f %f",
		VarNames:  "timestamp acc_x acc_y acc_z mag_x mag_y mag_z",
	},
	{
		Table:     "status_data",
		Size:      12,
		SysIndex:  types.DrpStatus,
		DataOrder: "%u %d %d",
		VarNames:  "timestamp op_mode fpl_queue",
	},
}

var rootCmd = &cobra.Command{
	Use:   "suchai-storage",
	Short: "Persistent storage core of the SUCHAI flight software",
	Long: `suchai-storage drives the satellite data repository from the
command line: system status variables, the flight plan and the payload
sample stores, over simulated or image-backed flash and FRAM media.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		statusCmd,
		fpCmd,
		payloadCmd,
		storageCmd,
		timeCmd,
	)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	log, err = buildLogger()
	if err != nil {
		return err
	}
	media = metrics.NewMedia()

	store, err := buildStore()
	if err != nil {
		return err
	}

	opts := []repository.Option{
		repository.WithLogger(log),
		repository.WithNode(cfg.Node),
	}
	if cfg.Mode == config.ModeRAM {
		// Nothing survives a restart in RAM mode: start from defaults.
		opts = append(opts, repository.WithStatusDefaults())
	}
	repo, err = repository.New(store, defaultDataMap, cfg.FPMaxEntries, opts...)
	if err != nil {
		teardown()
		return err
	}
	return nil
}

func teardown() error {
	var first error
	if repo != nil {
		if err := repo.Close(); err != nil && first == nil {
			first = err
		}
		repo = nil
	}
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	closers = nil
	infos = nil
	if log != nil {
		log.Sync()
	}
	return first
}

func buildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// buildStore assembles the backend selected by the configuration. Flash and
// RAM modes share the flash engine and differ only in the media behind it.
func buildStore() (interfaces.Store, error) {
	engineCfg := flash.Config{
		FlashInit:          cfg.FlashInit,
		SectionSize:        cfg.SectionSize,
		PageSize:           cfg.PageSize,
		FPMaxEntries:       cfg.FPMaxEntries,
		SectionsPerPayload: cfg.SectionsPerPayload,
		TripleWrite:        cfg.TripleWrite,
		TLBInFlash:         cfg.TLBLocation == config.TLBFlash,
	}

	switch cfg.Mode {
	case config.ModeRAM:
		flashDev, err := device.NewSimFlash(1, cfg.FlashSections, cfg.SectionSize)
		if err != nil {
			return nil, err
		}
		framDev, err := device.NewSimFram(cfg.FramSize)
		if err != nil {
			return nil, err
		}
		infos = append(infos, flashDev, framDev)
		return flash.New(
			device.InstrumentFlash(flashDev, media),
			device.InstrumentFram(framDev, media),
			engineCfg, flash.WithLogger(log))

	case config.ModeFlash:
		flashDev, err := device.OpenImageFlash(cfg.FlashImage, 1, cfg.FlashSections, cfg.SectionSize)
		if err != nil {
			return nil, err
		}
		closers = append(closers, flashDev)
		framDev, err := device.OpenImageFram(cfg.FramImage, cfg.FramSize)
		if err != nil {
			return nil, err
		}
		closers = append(closers, framDev)
		infos = append(infos, flashDev, framDev)
		return flash.New(
			device.InstrumentFlash(flashDev, media),
			device.InstrumentFram(framDev, media),
			engineCfg, flash.WithLogger(log))

	case config.ModeDatabase:
		return bolt.New(cfg.DatabasePath, bolt.WithLogger(log))
	}
	return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
}

// Package config loads the storage runtime configuration from an optional
// YAML file and SUCHAI_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/joalopez1206/suchai/internal/types"
)

// Storage modes.
const (
	ModeRAM      = "ram"      // flash engine over in-memory devices
	ModeFlash    = "flash"    // flash engine over image-backed devices
	ModeDatabase = "database" // bbolt store
)

// TLB backup locations.
const (
	TLBFram  = "fram"
	TLBFlash = "flash"
)

// Config is the storage runtime configuration.
type Config struct {
	Mode        string `mapstructure:"mode"`
	TripleWrite bool   `mapstructure:"triple_write"`
	TLBLocation string `mapstructure:"tlb_location"`

	SectionSize uint32 `mapstructure:"section_size"`
	PageSize    uint32 `mapstructure:"page_size"`
	FramSize    uint32 `mapstructure:"fram_size"`
	FlashInit   uint32 `mapstructure:"flash_init"`

	FPMaxEntries       int `mapstructure:"fp_max_entries"`
	SectionsPerPayload int `mapstructure:"sections_per_payload"`
	FlashSections      int `mapstructure:"flash_sections"`

	Node int32 `mapstructure:"node"`

	FlashImage   string `mapstructure:"flash_image"`
	FramImage    string `mapstructure:"fram_image"`
	DatabasePath string `mapstructure:"database_path"`

	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeRAM)
	v.SetDefault("triple_write", false)
	v.SetDefault("tlb_location", TLBFram)
	v.SetDefault("section_size", types.SectionSize)
	v.SetDefault("page_size", types.PageSize)
	v.SetDefault("fram_size", types.FramSize)
	v.SetDefault("flash_init", 0)
	v.SetDefault("fp_max_entries", types.SectionSize/types.FPEntrySize)
	v.SetDefault("sections_per_payload", 2)
	v.SetDefault("flash_sections", 16)
	v.SetDefault("node", 1)
	v.SetDefault("flash_image", "suchai-flash.img")
	v.SetDefault("fram_image", "suchai-fram.img")
	v.SetDefault("database_path", "suchai.db")
	v.SetDefault("log_level", "info")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("suchai")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks mode names and geometry coherence.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRAM, ModeFlash, ModeDatabase:
	default:
		return fmt.Errorf("config: unknown storage mode %q", c.Mode)
	}
	switch c.TLBLocation {
	case TLBFram, TLBFlash:
	default:
		return fmt.Errorf("config: unknown TLB location %q", c.TLBLocation)
	}
	if c.PageSize == 0 || c.SectionSize%c.PageSize != 0 {
		return fmt.Errorf("config: section size %d is not a multiple of page size %d",
			c.SectionSize, c.PageSize)
	}
	if c.FPMaxEntries <= 0 || c.SectionsPerPayload <= 0 || c.FlashSections <= 0 {
		return fmt.Errorf("config: table sizes must be positive")
	}
	if c.Mode == ModeDatabase && c.DatabasePath == "" {
		return fmt.Errorf("config: database mode needs database_path")
	}
	return nil
}

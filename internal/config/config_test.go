package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joalopez1206/suchai/internal/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeRAM, cfg.Mode)
	assert.Equal(t, TLBFram, cfg.TLBLocation)
	assert.Equal(t, uint32(types.SectionSize), cfg.SectionSize)
	assert.Equal(t, uint32(types.PageSize), cfg.PageSize)
	assert.Equal(t, uint32(types.FramSize), cfg.FramSize)
	assert.Equal(t, types.SectionSize/types.FPEntrySize, cfg.FPMaxEntries)
	assert.False(t, cfg.TripleWrite)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suchai.yaml")
	yaml := `mode: flash
triple_write: true
tlb_location: flash
fp_max_entries: 128
flash_image: /tmp/fsw-flash.img
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeFlash, cfg.Mode)
	assert.True(t, cfg.TripleWrite)
	assert.Equal(t, TLBFlash, cfg.TLBLocation)
	assert.Equal(t, 128, cfg.FPMaxEntries)
	assert.Equal(t, "/tmp/fsw-flash.img", cfg.FlashImage)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "sql" }},
		{name: "unknown tlb location", mutate: func(c *Config) { c.TLBLocation = "eeprom" }},
		{name: "section not page aligned", mutate: func(c *Config) { c.SectionSize = 1000 }},
		{name: "no entries", mutate: func(c *Config) { c.FPMaxEntries = 0 }},
		{name: "database without path", mutate: func(c *Config) {
			c.Mode = ModeDatabase
			c.DatabasePath = ""
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

package gridcore

import (
	"os"
	"time"

	"github.com/olekukonko/errors"
	"github.com/pelletier/go-toml/v2"
)

// Config collects the tunables of one grid instance. The zero value is
// not useful; start from DefaultConfig or LoadConfig.
type Config struct {
	Layout string `toml:"layout"` // "grouped" or "standard"
	Sticky string `toml:"sticky"` // "standard" or "grouped"

	Heights     Heights          `toml:"heights"`
	Overscan    Overscan         `toml:"overscan"`
	Breakpoints BreakpointConfig `toml:"breakpoints"`

	HeaderPadding int `toml:"header_padding"` // autosize room for sort/menu affordances
	CellPadding   int `toml:"cell_padding"`
	SampleCap     int `toml:"sample_cap"`
	DebounceMs    int `toml:"debounce_ms"` // autosize coalescing window

	DynamicHeights bool `toml:"dynamic_heights"`
	RTL            bool `toml:"rtl"`
	Debug          bool `toml:"debug"` // enables the engine trace log
}

// DefaultConfig returns the stock configuration: grouped layout with
// matching sticky topology, default heights and breakpoints, a 100ms
// autosize debounce.
func DefaultConfig() Config {
	return Config{
		Layout:        "grouped",
		Sticky:        "grouped",
		Heights:       DefaultHeights(),
		Overscan:      DefaultOverscan(),
		Breakpoints:   DefaultBreakpoints(),
		HeaderPadding: 28,
		CellPadding:   16,
		SampleCap:     defaultSampleCap,
		DebounceMs:    100,
	}
}

// LoadConfig reads a TOML file over the defaults, so files only state
// what they change.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Newf("read config %s", path).Wrap(err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Newf("parse config %s", path).Wrap(err)
	}
	return cfg, nil
}

func (c Config) layoutMode() LayoutMode {
	if c.Layout == "standard" {
		return LayoutStandard
	}
	return LayoutGrouped
}

func (c Config) stickyMode() StickyMode {
	if c.Sticky == "standard" {
		return StickyStandard
	}
	return StickyGrouped
}

func (c Config) debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

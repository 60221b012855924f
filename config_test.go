package gridcore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.layoutMode() != LayoutGrouped || cfg.stickyMode() != StickyGrouped {
		t.Errorf("default modes = %v/%v, want grouped/grouped", cfg.layoutMode(), cfg.stickyMode())
	}
	if cfg.Heights != DefaultHeights() {
		t.Errorf("heights = %+v, want defaults", cfg.Heights)
	}
	if cfg.debounce() != 100*time.Millisecond {
		t.Errorf("debounce = %v, want 100ms", cfg.debounce())
	}
	if cfg.SampleCap != defaultSampleCap {
		t.Errorf("sample cap = %d, want %d", cfg.SampleCap, defaultSampleCap)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.toml")
	doc := `
layout = "standard"
rtl = true
debounce_ms = 250

[heights]
row = 28

[overscan]
count = -1

[overscan.map]
md = 2
default = 6
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.layoutMode() != LayoutStandard || !cfg.RTL {
		t.Errorf("overrides not applied: layout=%q rtl=%v", cfg.Layout, cfg.RTL)
	}
	if cfg.debounce() != 250*time.Millisecond {
		t.Errorf("debounce = %v, want 250ms", cfg.debounce())
	}
	if cfg.Heights.Row != 28 {
		t.Errorf("row height = %d, want 28", cfg.Heights.Row)
	}
	// Fields the file does not mention keep their defaults.
	if cfg.Heights.GroupHeader != DefaultHeights().GroupHeader {
		t.Errorf("group header height = %d, want default", cfg.Heights.GroupHeader)
	}
	if cfg.HeaderPadding != 28 || cfg.SampleCap != defaultSampleCap {
		t.Errorf("untouched fields lost defaults: padding=%d cap=%d", cfg.HeaderPadding, cfg.SampleCap)
	}
	if got := cfg.Overscan.Resolve(BreakpointMD); got != 2 {
		t.Errorf("md overscan = %d, want 2", got)
	}
	if got := cfg.Overscan.Resolve(BreakpointXL); got != 6 {
		t.Errorf("xl overscan = %d, want the default entry 6", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatalf("missing file loaded without error")
	}
	// Callers still get a usable config.
	if cfg.layoutMode() != LayoutGrouped {
		t.Errorf("fallback config not defaulted")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("layout = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("malformed file parsed without error")
	}
}

package gridcore

// Breakpoint is a named viewport-width tier. Overscan maps may be keyed
// by breakpoint name so narrow viewports render fewer spare rows.
type Breakpoint uint8

const (
	BreakpointBase Breakpoint = iota
	BreakpointSM
	BreakpointMD
	BreakpointLG
	BreakpointXL
	BreakpointXXL
)

func (b Breakpoint) String() string {
	switch b {
	case BreakpointSM:
		return "sm"
	case BreakpointMD:
		return "md"
	case BreakpointLG:
		return "lg"
	case BreakpointXL:
		return "xl"
	case BreakpointXXL:
		return "2xl"
	}
	return "base"
}

// BreakpointConfig holds the pixel thresholds for each tier. A width
// satisfies a breakpoint at the threshold and above.
type BreakpointConfig struct {
	SM  int `toml:"sm"`
	MD  int `toml:"md"`
	LG  int `toml:"lg"`
	XL  int `toml:"xl"`
	XXL int `toml:"2xl"`
}

// DefaultBreakpoints returns the standard threshold values.
func DefaultBreakpoints() BreakpointConfig {
	return BreakpointConfig{
		SM:  640,
		MD:  768,
		LG:  1024,
		XL:  1280,
		XXL: 1536,
	}
}

// Active returns the highest breakpoint the width satisfies.
func (c BreakpointConfig) Active(width int) Breakpoint {
	if width >= c.XXL {
		return BreakpointXXL
	}
	if width >= c.XL {
		return BreakpointXL
	}
	if width >= c.LG {
		return BreakpointLG
	}
	if width >= c.MD {
		return BreakpointMD
	}
	if width >= c.SM {
		return BreakpointSM
	}
	return BreakpointBase
}

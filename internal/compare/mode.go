package compare

import "strings"

// Mode selects how two assets are combined.
type Mode string

const (
	ModeWipeHorizontal Mode = "wipe-horizontal"
	ModeWipeVertical   Mode = "wipe-vertical"
	ModeDifference     Mode = "difference"
	ModeAbsDifference  Mode = "abs-difference"
	ModeSubtract       Mode = "subtract"
	ModeMultiply       Mode = "multiply"
	ModeScreen         Mode = "screen"
	ModeAdd            Mode = "add"
)

var allModes = []Mode{
	ModeWipeHorizontal, ModeWipeVertical,
	ModeDifference, ModeAbsDifference, ModeSubtract,
	ModeMultiply, ModeScreen, ModeAdd,
}

// Modes returns every supported mode.
func Modes() []Mode {
	out := make([]Mode, len(allModes))
	copy(out, allModes)
	return out
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range allModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// IsWipe reports whether m is a positional wipe.
func (m Mode) IsWipe() bool {
	return m == ModeWipeHorizontal || m == ModeWipeVertical
}

// IsMath reports whether m computes a derived bitmap.
func (m Mode) IsMath() bool {
	switch m {
	case ModeDifference, ModeAbsDifference, ModeSubtract, ModeMultiply, ModeScreen, ModeAdd:
		return true
	}
	return false
}

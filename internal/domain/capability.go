package domain

import "strings"

// Capability is a named permission bit stored as part of a membership's
// integer mask.
type Capability string

const (
	CapabilityPlaybackControl Capability = "PLAYBACK_CONTROL"
	CapabilityReorderQueue    Capability = "REORDER_QUEUE"
	CapabilityRemoveItems     Capability = "REMOVE_ITEMS"
	CapabilitySkipOverride    Capability = "SKIP_OVERRIDE"
)

// ordered by bit value so FromMask output is stable
var capabilityBits = []struct {
	capability Capability
	bit        int
}{
	{CapabilityPlaybackControl, 1},
	{CapabilityReorderQueue, 2},
	{CapabilityRemoveItems, 4},
	{CapabilitySkipOverride, 8},
}

func AllCapabilities() []Capability {
	caps := make([]Capability, 0, len(capabilityBits))
	for _, cb := range capabilityBits {
		caps = append(caps, cb.capability)
	}

	return caps
}

func ToMask(capabilities []Capability) int {
	mask := 0
	for _, c := range capabilities {
		for _, cb := range capabilityBits {
			if cb.capability == c {
				mask |= cb.bit
			}
		}
	}

	return mask
}

// FromMask returns every capability whose bit is set. Unknown bits are
// ignored, not rejected: a mask written by a newer version still decodes.
func FromMask(mask int) []Capability {
	caps := make([]Capability, 0, len(capabilityBits))
	for _, cb := range capabilityBits {
		if mask&cb.bit == cb.bit {
			caps = append(caps, cb.capability)
		}
	}

	return caps
}

func HasCapability(mask int, capability Capability) bool {
	for _, cb := range capabilityBits {
		if cb.capability == capability {
			return mask&cb.bit == cb.bit
		}
	}

	return false
}

// ParseCapability resolves a case-insensitive capability name.
func ParseCapability(s string) (Capability, bool) {
	c := Capability(strings.ToUpper(s))
	for _, cb := range capabilityBits {
		if cb.capability == c {
			return c, true
		}
	}

	return "", false
}

func CapabilityNames(capabilities []Capability) []string {
	names := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		names = append(names, string(c))
	}

	return names
}

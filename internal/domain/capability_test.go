package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityMaskRoundTrip(t *testing.T) {
	all := AllCapabilities()
	assert.Equal(t, 15, ToMask(all))

	// every subset survives the round trip
	for mask := 0; mask < 16; mask++ {
		assert.Equal(t, mask, ToMask(FromMask(mask)), "mask %d", mask)
	}
}

func TestFromMaskIgnoresUnknownBits(t *testing.T) {
	caps := FromMask(1 | 16 | 32)
	assert.Equal(t, []Capability{CapabilityPlaybackControl}, caps)
}

func TestHasCapability(t *testing.T) {
	mask := ToMask([]Capability{CapabilityReorderQueue, CapabilitySkipOverride})

	assert.True(t, HasCapability(mask, CapabilityReorderQueue))
	assert.True(t, HasCapability(mask, CapabilitySkipOverride))
	assert.False(t, HasCapability(mask, CapabilityPlaybackControl))
	assert.False(t, HasCapability(mask, CapabilityRemoveItems))
	assert.False(t, HasCapability(mask, Capability("TELEPORT")))
}

func TestParseCapability(t *testing.T) {
	c, ok := ParseCapability("playback_control")
	assert.True(t, ok)
	assert.Equal(t, CapabilityPlaybackControl, c)

	c, ok = ParseCapability("REORDER_QUEUE")
	assert.True(t, ok)
	assert.Equal(t, CapabilityReorderQueue, c)

	_, ok = ParseCapability("TELEPORT")
	assert.False(t, ok)

	_, ok = ParseCapability("")
	assert.False(t, ok)
}

func TestCapabilityNames(t *testing.T) {
	assert.Equal(t, []string{"PLAYBACK_CONTROL", "REORDER_QUEUE", "REMOVE_ITEMS", "SKIP_OVERRIDE"},
		CapabilityNames(AllCapabilities()))
	assert.Empty(t, CapabilityNames(nil))
}

package hubpower

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A USB 2 port is off exactly when the whole status word is zero.
func TestDecodePortStatusUSB2OffExhaustive(t *testing.T) {
	for raw := 0; raw <= 0xffff; raw++ {
		s := DecodePortStatus(uint16(raw), false)
		if s.Off != (raw == 0) {
			t.Fatalf("raw %#04x: Off = %v", raw, s.Off)
		}
	}
}

// A USB 3 port is off exactly when the link state is SS.Disabled and no
// other bit is set.
func TestDecodePortStatusUSB3OffExhaustive(t *testing.T) {
	for raw := 0; raw <= 0xffff; raw++ {
		s := DecodePortStatus(uint16(raw), true)
		if s.Off != (raw == 0x0080) {
			t.Fatalf("raw %#04x: Off = %v", raw, s.Off)
		}
	}
}

func TestDecodePortStatusUSB2(t *testing.T) {
	s := DecodePortStatus(0x0503, false)
	assert.True(t, s.Power)
	assert.True(t, s.HighSpeed)
	assert.True(t, s.Enable)
	assert.True(t, s.Connection)
	assert.False(t, s.LowSpeed)
	assert.False(t, s.Off)
	assert.Equal(t, []string{"power", "highspeed", "enable", "connect"}, s.Labels())

	s = DecodePortStatus(0x0000, false)
	assert.Equal(t, []string{"off"}, s.Labels())

	s = DecodePortStatus(0x1a04, false)
	assert.True(t, s.Indicator)
	assert.True(t, s.LowSpeed)
	assert.True(t, s.Suspend)
	assert.False(t, s.Power)
}

func TestDecodePortStatusUSB3(t *testing.T) {
	s := DecodePortStatus(0x0203, true)
	assert.True(t, s.Power)
	assert.True(t, s.Speed5Gbps)
	assert.Equal(t, LinkStateU0, s.Link)
	assert.Equal(t, []string{"power", "5gbps", "U0", "enable", "connect"}, s.Labels())

	s = DecodePortStatus(0x0080, true)
	assert.True(t, s.Off)
	assert.Equal(t, LinkStateSSDisabled, s.Link)
	assert.Equal(t, []string{"off"}, s.Labels())

	// Rx.Detect with power, nothing attached.
	s = DecodePortStatus(0x02a0, true)
	assert.True(t, s.Power)
	assert.Equal(t, LinkStateRxDetect, s.Link)
	assert.False(t, s.Off)
	assert.False(t, s.Connection)
}

func TestLinkStateNames(t *testing.T) {
	names := map[LinkState]string{
		LinkStateU0:         "U0",
		LinkStateU1:         "U1",
		LinkStateU2:         "U2",
		LinkStateU3:         "U3",
		LinkStateSSDisabled: "SS.Disabled",
		LinkStateRxDetect:   "Rx.Detect",
		LinkStateSSInactive: "SS.Inactive",
		LinkStatePolling:    "Polling",
		LinkStateRecovery:   "Recovery",
		LinkStateHotReset:   "HotReset",
		LinkStateCompliance: "Compliance",
		LinkStateLoopback:   "Loopback",
	}
	for state, want := range names {
		assert.Equal(t, want, state.String())
	}
	assert.Equal(t, "reserved", LinkState(0x0180).String())
}

// Reserved link-state encodings carry no link label but the other bits
// are still reported.
func TestDecodePortStatusReservedLinkState(t *testing.T) {
	s := DecodePortStatus(0x0181, true)
	assert.Equal(t, []string{"5gbps", "connect"}, s.Labels())
}

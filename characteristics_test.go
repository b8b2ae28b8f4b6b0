package hubpower

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHubCharacteristics(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		want HubCharacteristics
	}{
		{
			name: "ganged everything",
			word: 0x0000,
			want: HubCharacteristics{PowerSwitching: PowerSwitchingGanged, OverCurrent: OverCurrentGanged},
		},
		{
			name: "per-port switching and protection",
			word: 0x0009,
			want: HubCharacteristics{PowerSwitching: PowerSwitchingPerPort, OverCurrent: OverCurrentPerPort},
		},
		{
			name: "no switching no protection",
			word: 0x0012,
			want: HubCharacteristics{PowerSwitching: PowerSwitchingNone, OverCurrent: OverCurrentNone},
		},
		{
			name: "reserved switching mode",
			word: 0x0003,
			want: HubCharacteristics{PowerSwitching: PowerSwitchingReserved, OverCurrent: OverCurrentGanged},
		},
		{
			name: "compound device with indicators",
			word: 0x008d,
			want: HubCharacteristics{
				PowerSwitching: PowerSwitchingPerPort,
				OverCurrent:    OverCurrentPerPort,
				Compound:       true,
				PortIndicators: true,
			},
		},
		{
			name: "over-current mode 0x18 means none",
			word: 0x0019,
			want: HubCharacteristics{PowerSwitching: PowerSwitchingPerPort, OverCurrent: OverCurrentNone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeHubCharacteristics(tt.word))
		})
	}
}

// Per-port power must require per-port switching mode combined with
// per-port or ganged over-current protection; exhaustively check every
// combination of the five relevant bits.
func TestPerPortPowerExhaustive(t *testing.T) {
	for w := uint16(0); w < 0x20; w++ {
		lpsm := w & 0x03
		ocpm := (w >> 3) & 0x03
		want := lpsm == 0x01 && (ocpm == 0x00 || ocpm == 0x01)
		got := DecodeHubCharacteristics(w).PerPortPower()
		if got != want {
			t.Errorf("word %#04x: PerPortPower() = %v, want %v", w, got, want)
		}
	}
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "per-port", PowerSwitchingPerPort.String())
	assert.Equal(t, "ganged", PowerSwitchingGanged.String())
	assert.Equal(t, "none", PowerSwitchingNone.String())
	assert.Equal(t, "reserved", PowerSwitchingReserved.String())
	assert.Equal(t, "ganged", OverCurrentGanged.String())
	assert.Equal(t, "per-port", OverCurrentPerPort.String())
	assert.Equal(t, "none", OverCurrentNone.String())
}

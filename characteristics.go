package hubpower

// wHubCharacteristics bit masks, USB 2.0 spec Table 11-13.
const (
	hubCharPowerSwitchingMask = 0x0003
	hubCharCompound           = 0x0004
	hubCharOverCurrentMask    = 0x0018
	hubCharPortIndicators     = 0x0080
)

// PowerSwitchingMode is the hub's logical power switching mode.
type PowerSwitchingMode uint8

const (
	PowerSwitchingGanged PowerSwitchingMode = iota
	PowerSwitchingPerPort
	PowerSwitchingNone
	PowerSwitchingReserved
)

func (m PowerSwitchingMode) String() string {
	switch m {
	case PowerSwitchingGanged:
		return "ganged"
	case PowerSwitchingPerPort:
		return "per-port"
	case PowerSwitchingNone:
		return "none"
	}
	return "reserved"
}

// OverCurrentMode is the hub's over-current protection mode.
type OverCurrentMode uint8

const (
	OverCurrentGanged OverCurrentMode = iota
	OverCurrentPerPort
	OverCurrentNone
)

func (m OverCurrentMode) String() string {
	switch m {
	case OverCurrentGanged:
		return "ganged"
	case OverCurrentPerPort:
		return "per-port"
	}
	return "none"
}

// HubCharacteristics is the decoded wHubCharacteristics word from the
// hub class descriptor.
type HubCharacteristics struct {
	PowerSwitching PowerSwitchingMode
	OverCurrent    OverCurrentMode
	Compound       bool
	PortIndicators bool
}

// DecodeHubCharacteristics decodes a raw wHubCharacteristics word.
func DecodeHubCharacteristics(w uint16) HubCharacteristics {
	c := HubCharacteristics{
		PowerSwitching: PowerSwitchingMode(w & hubCharPowerSwitchingMask),
		Compound:       w&hubCharCompound != 0,
		PortIndicators: w&hubCharPortIndicators != 0,
	}
	switch w & hubCharOverCurrentMask {
	case 0x0000:
		c.OverCurrent = OverCurrentGanged
	case 0x0008:
		c.OverCurrent = OverCurrentPerPort
	default:
		c.OverCurrent = OverCurrentNone
	}
	return c
}

// PerPortPower reports whether the hub supports usable per-port power
// switching: power switching must be per-port, and over-current
// protection must be per-port or ganged. Hubs with ganged or no power
// switching cannot control individual ports.
func (c HubCharacteristics) PerPortPower() bool {
	if c.PowerSwitching != PowerSwitchingPerPort {
		return false
	}
	return c.OverCurrent == OverCurrentPerPort || c.OverCurrent == OverCurrentGanged
}

package hubpower

// wPortStatus bit masks, USB 2.0 spec Table 11-21.
const (
	portStatConnection  = 0x0001
	portStatEnable      = 0x0002
	portStatSuspend     = 0x0004
	portStatOverCurrent = 0x0008
	portStatReset       = 0x0010
	portStatPower       = 0x0100
	portStatLowSpeed    = 0x0200
	portStatHighSpeed   = 0x0400
	portStatTest        = 0x0800
	portStatIndicator   = 0x1000
)

// Additions from USB 3.0 spec Table 10-10.
const (
	portStatLinkStateMask = 0x01e0
	ssPortStatPower       = 0x0200
	ssPortStatSpeedMask   = 0x1c00
	ssPortStatSpeed5Gbps  = 0x0000
)

// LinkState is the USB 3.0 port link state, bits 5..8 of wPortStatus.
type LinkState uint16

const (
	LinkStateU0         LinkState = 0x0000
	LinkStateU1         LinkState = 0x0020
	LinkStateU2         LinkState = 0x0040
	LinkStateU3         LinkState = 0x0060
	LinkStateSSDisabled LinkState = 0x0080
	LinkStateRxDetect   LinkState = 0x00a0
	LinkStateSSInactive LinkState = 0x00c0
	LinkStatePolling    LinkState = 0x00e0
	LinkStateRecovery   LinkState = 0x0100
	LinkStateHotReset   LinkState = 0x0120
	LinkStateCompliance LinkState = 0x0140
	LinkStateLoopback   LinkState = 0x0160
)

func (s LinkState) String() string {
	switch s {
	case LinkStateU0:
		return "U0"
	case LinkStateU1:
		return "U1"
	case LinkStateU2:
		return "U2"
	case LinkStateU3:
		return "U3"
	case LinkStateSSDisabled:
		return "SS.Disabled"
	case LinkStateRxDetect:
		return "Rx.Detect"
	case LinkStateSSInactive:
		return "SS.Inactive"
	case LinkStatePolling:
		return "Polling"
	case LinkStateRecovery:
		return "Recovery"
	case LinkStateHotReset:
		return "HotReset"
	case LinkStateCompliance:
		return "Compliance"
	case LinkStateLoopback:
		return "Loopback"
	}
	return "reserved"
}

// PortStatus is the decoded wPortStatus word for one downstream port.
// Which fields are meaningful depends on the hub's protocol generation:
// LowSpeed, HighSpeed, Suspend, Test and Indicator exist on USB 2 hubs
// only, Link and Speed5Gbps on USB 3 hubs only.
type PortStatus struct {
	Raw        uint16
	SuperSpeed bool

	Connection  bool
	Enable      bool
	OverCurrent bool
	Reset       bool
	Power       bool

	Suspend   bool
	LowSpeed  bool
	HighSpeed bool
	Test      bool
	Indicator bool

	Link       LinkState
	Speed5Gbps bool

	// Off reports a fully powered-down port: a zero status word on USB 2,
	// or SS.Disabled with no other bits set on USB 3.
	Off bool
}

// DecodePortStatus decodes a raw wPortStatus word. The decode is total:
// reserved bits are ignored, never rejected.
func DecodePortStatus(raw uint16, superSpeed bool) PortStatus {
	s := PortStatus{
		Raw:         raw,
		SuperSpeed:  superSpeed,
		Connection:  raw&portStatConnection != 0,
		Enable:      raw&portStatEnable != 0,
		OverCurrent: raw&portStatOverCurrent != 0,
		Reset:       raw&portStatReset != 0,
	}
	if superSpeed {
		s.Power = raw&ssPortStatPower != 0
		s.Link = LinkState(raw & portStatLinkStateMask)
		s.Speed5Gbps = raw&ssPortStatSpeedMask == ssPortStatSpeed5Gbps
		s.Off = raw == uint16(LinkStateSSDisabled)
	} else {
		s.Power = raw&portStatPower != 0
		s.Suspend = raw&portStatSuspend != 0
		s.LowSpeed = raw&portStatLowSpeed != 0
		s.HighSpeed = raw&portStatHighSpeed != 0
		s.Test = raw&portStatTest != 0
		s.Indicator = raw&portStatIndicator != 0
		s.Off = raw == 0
	}
	return s
}

// Labels renders the status as the set of display words, most
// significant first.
func (s PortStatus) Labels() []string {
	var labels []string
	if s.Off {
		labels = append(labels, "off")
	} else if s.SuperSpeed {
		if s.Power {
			labels = append(labels, "power")
		}
		if s.Speed5Gbps {
			labels = append(labels, "5gbps")
		}
		if name := s.Link.String(); name != "reserved" {
			labels = append(labels, name)
		}
	} else {
		if s.Power {
			labels = append(labels, "power")
		}
		if s.Indicator {
			labels = append(labels, "indicator")
		}
		if s.Test {
			labels = append(labels, "test")
		}
		if s.HighSpeed {
			labels = append(labels, "highspeed")
		}
		if s.LowSpeed {
			labels = append(labels, "lowspeed")
		}
		if s.Suspend {
			labels = append(labels, "suspend")
		}
	}
	if s.Reset {
		labels = append(labels, "reset")
	}
	if s.OverCurrent {
		labels = append(labels, "oc")
	}
	if s.Enable {
		labels = append(labels, "enable")
	}
	if s.Connection {
		labels = append(labels, "connect")
	}
	return labels
}

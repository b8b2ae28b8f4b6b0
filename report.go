package hubpower

import (
	"fmt"

	"github.com/rs/zerolog"
)

// PortReport is the decoded state of one downstream port.
type PortReport struct {
	Port   int
	Status PortStatus

	// Known is false when the status transfer failed; Status is then
	// zero and meaningless.
	Known bool

	// Description of the device connected to the port, when one is.
	Description string
}

// ReportPorts reads and decodes the status of the hub's ports selected
// by portMask (bit 0 = port 1; zero selects all ports). The devices
// snapshot is used to describe connected children. A failed status read
// marks that port unknown and the scan continues.
func ReportPorts(hub *Hub, devices []Device, portMask int, logger *zerolog.Logger) ([]PortReport, error) {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}

	handle, err := hub.Device.Open()
	if err != nil {
		return nil, fmt.Errorf("open hub %s: %w", hub.Location, err)
	}
	defer handle.Close()

	var reports []PortReport
	for port := 1; port <= hub.Ports; port++ {
		if portMask > 0 && portMask&(1<<(port-1)) == 0 {
			continue
		}
		raw, err := handle.PortStatus(port)
		if err != nil {
			log.Warn().Err(err).Str("hub", hub.Location).Int("port", port).
				Msg("cannot read port status")
			reports = append(reports, PortReport{Port: port})
			continue
		}
		report := PortReport{
			Port:   port,
			Status: DecodePortStatus(raw, hub.SuperSpeed()),
			Known:  true,
		}
		if report.Status.Connection {
			report.Description = describeChild(hub, port, devices)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// describeChild finds the device attached to the given hub port in the
// enumeration snapshot and describes it.
func describeChild(hub *Hub, port int, devices []Device) string {
	want := childLocation(hub.Location, port)
	for _, dev := range devices {
		if buildLocation(dev.BusNumber(), dev.PortChain()) == want {
			return describeDevice(dev)
		}
	}
	return ""
}

package hubpower

import (
	"fmt"

	"github.com/rs/zerolog"
)

// SetPortsPower makes a single pass over the hub's ports selected by
// portMask (bit 0 = port 1; zero selects all ports) and sets or clears
// port power. Ports already in the requested state are left alone.
// Power cycle sequencing and off-repeat policy are up to the caller.
func SetPortsPower(hub *Hub, portMask int, on bool, logger *zerolog.Logger) error {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}

	handle, err := hub.Device.Open()
	if err != nil {
		return fmt.Errorf("open hub %s: %w", hub.Location, err)
	}
	defer handle.Close()

	for port := 1; port <= hub.Ports; port++ {
		if portMask > 0 && portMask&(1<<(port-1)) == 0 {
			continue
		}
		raw, err := handle.PortStatus(port)
		if err == nil {
			status := DecodePortStatus(raw, hub.SuperSpeed())
			if status.Power == on {
				continue
			}
		}
		if err := handle.SetPortPower(port, on); err != nil {
			log.Error().Err(err).Str("hub", hub.Location).Int("port", port).
				Bool("on", on).Msg("failed to control port power")
			continue
		}
		log.Debug().Str("hub", hub.Location).Int("port", port).Bool("on", on).
			Msg("port power changed")
	}
	return nil
}

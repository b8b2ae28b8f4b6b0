package hubpower

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Hub class descriptor layout, linux/usb/ch11.h:
// bDescLength, bDescriptorType, bNbrPorts, wHubCharacteristics,
// bPwrOn2PwrGood, bHubContrCurrent, then variable-length port data.
const (
	hubDescriptorHeaderLen = 7
	minHubDescriptorLen    = hubDescriptorHeaderLen + 2
)

// readHubInfo builds a Hub record for one enumerated device believed to
// be hub-class. The device is opened only for the duration of the hub
// descriptor fetch.
func readHubInfo(dev Device) (*Hub, error) {
	desc, err := dev.Descriptor()
	if err != nil {
		return nil, fmt.Errorf("device descriptor: %w", err)
	}
	if desc.DeviceClass != ClassHub {
		return nil, ErrNotAHub
	}

	handle, err := dev.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer handle.Close()

	superSpeed := desc.USBVersion >= usbVersionSuperSpeed
	buf, err := handle.HubDescriptor(superSpeed)
	if err != nil {
		return nil, fmt.Errorf("hub descriptor: %w", err)
	}
	if len(buf) < minHubDescriptorLen {
		return nil, ErrDescriptorTooShort
	}

	characteristics := DecodeHubCharacteristics(binary.LittleEndian.Uint16(buf[3:5]))

	return &Hub{
		Device:         dev,
		USBVersion:     desc.USBVersion,
		Ports:          int(buf[2]),
		PowerSwitching: characteristics.PerPortPower(),
		Vendor:         fmt.Sprintf("%04x:%04x", desc.VendorID, desc.ProductID),
		Location:       buildLocation(dev.BusNumber(), dev.PortChain()),
	}, nil
}

// buildLocation renders a bus number and downstream port chain as the
// conventional location string: bus 2 with chain [1,3] is "2-1.3", a
// root hub on bus 2 is just "2".
func buildLocation(bus int, chain []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", bus)
	if len(chain) > maxHubChain {
		chain = chain[:maxHubChain]
	}
	for i, port := range chain {
		if i == 0 {
			fmt.Fprintf(&b, "-%d", port)
		} else {
			fmt.Fprintf(&b, ".%d", port)
		}
	}
	return b.String()
}

// childLocation is the location of the device attached to the given
// downstream port of a hub: "2-1" port 3 gives "2-1.3", root hub "2"
// port 3 gives "2-3".
func childLocation(hubLocation string, port int) string {
	if strings.ContainsRune(hubLocation, '-') {
		return fmt.Sprintf("%s.%d", hubLocation, port)
	}
	return fmt.Sprintf("%s-%d", hubLocation, port)
}

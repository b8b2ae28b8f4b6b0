package hubpower

import (
	"github.com/usbtools/hubpower/usbdev"
)

// SystemDevices snapshots the currently attached USB devices through
// the usbdev access layer. The snapshot is not restartable; call again
// for a fresh enumeration.
func SystemDevices() ([]Device, error) {
	devices, err := usbdev.Enumerate()
	if err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(devices))
	for _, dev := range devices {
		out = append(out, sysDevice{dev})
	}
	return out, nil
}

// sysDevice adapts *usbdev.Device to the Device contract.
type sysDevice struct {
	dev *usbdev.Device
}

func (d sysDevice) Descriptor() (usbdev.DeviceDescriptor, error) {
	return d.dev.Descriptor()
}

func (d sysDevice) BusNumber() int {
	return d.dev.BusNumber()
}

func (d sysDevice) PortChain() []int {
	return d.dev.PortChain()
}

func (d sysDevice) Open() (Handle, error) {
	handle, err := d.dev.Open()
	if err != nil {
		return nil, err
	}
	return handle, nil
}

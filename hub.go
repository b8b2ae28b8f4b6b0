// Package hubpower discovers USB hubs that support per-port power
// switching and decodes their per-port status.
//
// A physical multi-protocol hub enumerates as two separate devices, one
// per protocol generation; discovery correlates the two personas so a
// power action addresses the whole chassis. The package talks to the
// bus through the small Device/Handle contract, implemented for Linux
// by the usbdev subpackage.
package hubpower

import (
	"fmt"

	"github.com/usbtools/hubpower/usbdev"
)

// Error types
var (
	ErrNotAHub            = fmt.Errorf("device is not a hub")
	ErrDescriptorTooShort = fmt.Errorf("hub descriptor too short")
	ErrPermissionDenied   = fmt.Errorf("permission denied accessing USB devices")
)

const (
	// ClassHub is the USB hub device class code.
	ClassHub = 0x09

	// usbVersionSuperSpeed is the lowest bcdUSB of a SuperSpeed persona.
	usbVersionSuperSpeed = 0x0300

	// maxHubs bounds the registry; scanning continues past it but extra
	// hubs are silently dropped.
	maxHubs = 128

	// maxHubChain is the deepest hub chain we render; USB 3.0 permits 7.
	maxHubChain = 8
)

// Device is one enumerated USB device, as provided by the access layer.
// The reference is non-owning: opening and closing the device is a
// short-lived, scoped acquisition around each descriptor read.
type Device interface {
	// Descriptor returns the cached device descriptor. The error is
	// non-nil when the descriptor could not be read during enumeration,
	// typically for lack of permission.
	Descriptor() (usbdev.DeviceDescriptor, error)

	// BusNumber is the number of the bus the device is attached to.
	BusNumber() int

	// PortChain is the chain of downstream port numbers from the root
	// hub to the device. Empty for root hubs.
	PortChain() []int

	Open() (Handle, error)
}

// Handle is an open device. Every Open must be paired with a Close on
// all paths.
type Handle interface {
	// HubDescriptor fetches the class-specific hub descriptor, using
	// the SuperSpeed descriptor type when superSpeed is set.
	HubDescriptor(superSpeed bool) ([]byte, error)

	// PortStatus returns the raw wPortStatus word for a port (1-based).
	PortStatus(port int) (uint16, error)

	// StringDescriptor returns the string descriptor at index, or ""
	// for index 0.
	StringDescriptor(index uint8) (string, error)

	// SetPortPower sets or clears the PORT_POWER feature on a port.
	SetPortPower(port int, on bool) error

	Close() error
}

// Hub is one hub-class persona found during discovery. A physical hub
// chassis exposing both USB 2 and USB 3 appears as two Hub records.
type Hub struct {
	Device Device

	// USBVersion is the bcdUSB protocol version, e.g. 0x0210, 0x0300.
	USBVersion uint16

	// Ports is the number of downstream ports.
	Ports int

	// PowerSwitching reports confirmed per-port power switching
	// capability; only such hubs enter the registry.
	PowerSwitching bool

	// Vendor is the "vvvv:pppp" vendor:product id string.
	Vendor string

	// Location is the bus number followed by the port chain, e.g. "2-1.3".
	Location string

	// Description is a best-effort human-readable device description.
	Description string

	// Actionable marks hubs selected by the filters or promoted by
	// dual-hub correlation. Promotion only ever sets it.
	Actionable bool
}

// SuperSpeed reports whether this persona is USB 3.0 or later.
func (h *Hub) SuperSpeed() bool {
	return h.USBVersion >= usbVersionSuperSpeed
}

func (h *Hub) String() string {
	return fmt.Sprintf("hub %s [%s]", h.Location, h.Description)
}

// Registry is the result of one discovery scan: all per-port power
// switching hubs in enumeration order, plus the count of physically
// distinct actionable hubs.
type Registry struct {
	Hubs []*Hub

	// PhysicalCount counts each actionable physical chassis once,
	// regardless of how many protocol personas it exposes.
	PhysicalCount int
}

// Actionable returns the hubs selected for action, in enumeration order.
func (r *Registry) Actionable() []*Hub {
	var out []*Hub
	for _, h := range r.Hubs {
		if h.Actionable {
			out = append(out, h)
		}
	}
	return out
}

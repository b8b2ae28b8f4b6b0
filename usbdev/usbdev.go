// Package usbdev is a minimal Linux USB access layer for hub control:
// sysfs device enumeration plus synchronous usbdevfs control transfers.
// No interface claiming, no bulk or isochronous I/O.
package usbdev

import "fmt"

// Error types
var (
	ErrDeviceNotFound   = fmt.Errorf("device not found")
	ErrPermissionDenied = fmt.Errorf("permission denied")
	ErrDeviceBusy       = fmt.Errorf("device busy")
	ErrShortTransfer    = fmt.Errorf("short control transfer")
)

// DeviceDescriptor is the standard USB device descriptor, populated
// from sysfs attributes during enumeration.
type DeviceDescriptor struct {
	USBVersion        uint16
	DeviceClass       uint8
	DeviceSubClass    uint8
	DeviceProtocol    uint8
	MaxPacketSize0    uint8
	VendorID          uint16
	ProductID         uint16
	DeviceVersion     uint16
	ManufacturerIndex uint8
	ProductIndex      uint8
	SerialNumberIndex uint8
	NumConfigurations uint8
}

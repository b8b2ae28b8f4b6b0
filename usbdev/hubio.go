package usbdev

import (
	"encoding/binary"
	"time"
)

// Standard and class-specific request constants used for hub control.
const (
	requestGetStatus     = 0x00
	requestClearFeature  = 0x01
	requestSetFeature    = 0x03
	requestGetDescriptor = 0x06

	descriptorTypeString        = 0x03
	descriptorTypeHub           = 0x29
	descriptorTypeSuperSpeedHub = 0x2a

	// PORT_POWER feature selector, USB 2.0 spec Table 11-17.
	featurePortPower = 8

	requestTypeHubRead   = 0xa0 // IN  | class | device
	requestTypePortRead  = 0xa3 // IN  | class | other
	requestTypePortWrite = 0x23 // OUT | class | other
)

// ctrlTimeout bounds every hub control transfer.
const ctrlTimeout = 5000 * time.Millisecond

// hubDescriptorBufLen fits the fixed part of the hub descriptor plus
// the variable port bitmaps of hubs up to 24 ports.
const hubDescriptorBufLen = 7 + 2 + 3

// HubDescriptor fetches the class-specific hub descriptor, using the
// SuperSpeed hub descriptor type for USB 3 hubs. The returned slice is
// exactly as long as the reply; callers enforce their own minimum.
func (h *DeviceHandle) HubDescriptor(superSpeed bool) ([]byte, error) {
	descType := descriptorTypeHub
	if superSpeed {
		descType = descriptorTypeSuperSpeedHub
	}

	buf := make([]byte, hubDescriptorBufLen)
	n, err := h.ControlTransfer(
		requestTypeHubRead,
		requestGetDescriptor,
		uint16(descType)<<8,
		0,
		buf, ctrlTimeout,
	)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// PortStatus returns the raw wPortStatus word for a downstream port
// (1-based). The accompanying wPortChange word is discarded.
func (h *DeviceHandle) PortStatus(port int) (uint16, error) {
	buf := make([]byte, 4)
	n, err := h.ControlTransfer(
		requestTypePortRead,
		requestGetStatus,
		0,
		uint16(port),
		buf, ctrlTimeout,
	)
	if err != nil {
		return 0, err
	}
	if n < 2 {
		return 0, ErrShortTransfer
	}
	return binary.LittleEndian.Uint16(buf[:2]), nil
}

// SetPortPower sets or clears the PORT_POWER feature on a downstream
// port (1-based).
func (h *DeviceHandle) SetPortPower(port int, on bool) error {
	request := uint8(requestClearFeature)
	if on {
		request = requestSetFeature
	}
	_, err := h.ControlTransfer(
		requestTypePortWrite,
		request,
		featurePortPower,
		uint16(port),
		nil, ctrlTimeout,
	)
	return err
}

package usbdev

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/unix"
)

const usbdevfsControl = 0xc0185500

// usbdevfs_ctrltransfer
type usbCtrlRequest struct {
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Length      uint16
	Timeout     uint32
	Data        unsafe.Pointer
}

// DeviceHandle is an open usbdevfs device node. It supports the
// synchronous control transfers hub management needs; nothing else.
type DeviceHandle struct {
	device *Device
	fd     int
	mu     sync.Mutex
	closed bool
}

// Open opens the device node. Callers must pair every Open with a
// Close on all paths.
func (d *Device) Open() (*DeviceHandle, error) {
	fd, err := unix.Open(d.Path, unix.O_RDWR, 0)
	if err != nil {
		if err == unix.EACCES {
			return nil, ErrPermissionDenied
		}
		if err == unix.ENOENT {
			return nil, ErrDeviceNotFound
		}
		if err == unix.EBUSY {
			return nil, ErrDeviceBusy
		}
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	return &DeviceHandle{device: d, fd: fd}, nil
}

func (h *DeviceHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return unix.Close(h.fd)
}

// Device returns the device this handle was opened from.
func (h *DeviceHandle) Device() *Device {
	return h.device
}

// ControlTransfer performs a synchronous control transfer. For IN
// transfers data receives the reply; the returned count is the number
// of bytes actually transferred.
func (h *DeviceHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrDeviceNotFound
	}

	var dataPtr unsafe.Pointer
	if len(data) > 0 {
		dataPtr = unsafe.Pointer(&data[0])
	}

	ctrl := usbCtrlRequest{
		RequestType: requestType,
		Request:     request,
		Value:       value,
		Index:       index,
		Length:      uint16(len(data)),
		Timeout:     uint32(timeout / time.Millisecond),
		Data:        dataPtr,
	}

	n, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(h.fd), usbdevfsControl, uintptr(unsafe.Pointer(&ctrl)))
	if errno != 0 {
		if errno == unix.EACCES || errno == unix.EPERM {
			return 0, ErrPermissionDenied
		}
		return 0, fmt.Errorf("control transfer failed: %w", errno)
	}
	return int(n), nil
}

// StringDescriptor fetches the US English string descriptor at index
// and decodes its UTF-16 payload. Index 0 yields "".
func (h *DeviceHandle) StringDescriptor(index uint8) (string, error) {
	if index == 0 {
		return "", nil
	}

	buf := make([]byte, 256)
	n, err := h.ControlTransfer(
		0x80, // IN | standard | device
		requestGetDescriptor,
		uint16(descriptorTypeString)<<8|uint16(index),
		0x0409,
		buf, ctrlTimeout,
	)
	if err != nil {
		return "", err
	}
	if n < 2 || buf[0] < 2 {
		return "", ErrShortTransfer
	}

	length := int(buf[0])
	if length > n {
		length = n
	}

	u16 := make([]uint16, 0, (length-2)/2)
	for i := 2; i+1 < length; i += 2 {
		u16 = append(u16, binary.LittleEndian.Uint16(buf[i:i+2]))
	}
	return string(utf16.Decode(u16)), nil
}

package usbdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysfsUSBDevices = "/sys/bus/usb/devices"

// Device is one enumerated USB device. The descriptor is cached from
// sysfs; the device node is opened only on demand.
type Device struct {
	// Path is the usbdevfs node, e.g. /dev/bus/usb/002/004.
	Path string

	// Name is the sysfs entry name, e.g. "2-1.4" or "usb2" for a root
	// hub. It encodes the bus number and downstream port chain.
	Name string

	bus       int
	address   int
	portChain []int
	desc      DeviceDescriptor
	descErr   error
}

// Enumerate snapshots the USB devices currently known to sysfs, in
// directory order. Entries whose identity attributes cannot be read at
// all are dropped; entries whose descriptor attributes fail to read are
// kept with the error retained, since the device may still be openable
// or the failure itself is of interest to the caller.
func Enumerate() ([]*Device, error) {
	entries, err := os.ReadDir(sysfsUSBDevices)
	if err != nil {
		return nil, fmt.Errorf("failed to read sysfs USB directory: %w", err)
	}

	var devices []*Device
	for _, entry := range entries {
		name := entry.Name()

		// Skip interface entries (they contain ':'); keep devices
		// ("2-1.4") and root hubs ("usb2").
		if strings.Contains(name, ":") {
			continue
		}
		if !strings.Contains(name, "-") && !strings.HasPrefix(name, "usb") {
			continue
		}

		device, err := loadDevice(filepath.Join(sysfsUSBDevices, name), name)
		if err != nil {
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func loadDevice(sysfsPath, name string) (*Device, error) {
	readAttr := func(attr string) (string, error) {
		data, err := os.ReadFile(filepath.Join(sysfsPath, attr))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	readUint := func(attr string, base, bits int) (uint64, error) {
		s, err := readAttr(attr)
		if err != nil {
			return 0, err
		}
		return strconv.ParseUint(s, base, bits)
	}

	bus, err := readUint("busnum", 10, 16)
	if err != nil {
		return nil, err
	}
	address, err := readUint("devnum", 10, 16)
	if err != nil {
		return nil, err
	}

	device := &Device{
		Path:      fmt.Sprintf("/dev/bus/usb/%03d/%03d", bus, address),
		Name:      name,
		bus:       int(bus),
		address:   int(address),
		portChain: parsePortChain(name),
	}
	device.desc, device.descErr = loadDescriptor(sysfsPath, readAttr, readUint)
	return device, nil
}

func loadDescriptor(sysfsPath string,
	readAttr func(string) (string, error),
	readUint func(string, int, int) (uint64, error)) (DeviceDescriptor, error) {

	var desc DeviceDescriptor

	vid, err := readUint("idVendor", 16, 16)
	if err != nil {
		return desc, err
	}
	pid, err := readUint("idProduct", 16, 16)
	if err != nil {
		return desc, err
	}
	class, err := readUint("bDeviceClass", 16, 8)
	if err != nil {
		return desc, err
	}

	desc.VendorID = uint16(vid)
	desc.ProductID = uint16(pid)
	desc.DeviceClass = uint8(class)

	// bcdUSB is exposed as "version", formatted like " 3.00".
	if version, err := readAttr("version"); err == nil {
		var major, minor int
		if n, _ := fmt.Sscanf(version, "%d.%02d", &major, &minor); n == 2 {
			desc.USBVersion = uint16(major)<<8 | uint16(minor)
		}
	}

	if v, err := readUint("bDeviceSubClass", 16, 8); err == nil {
		desc.DeviceSubClass = uint8(v)
	}
	if v, err := readUint("bDeviceProtocol", 16, 8); err == nil {
		desc.DeviceProtocol = uint8(v)
	}
	if v, err := readUint("bMaxPacketSize0", 10, 8); err == nil {
		desc.MaxPacketSize0 = uint8(v)
	}
	if v, err := readUint("bNumConfigurations", 10, 8); err == nil {
		desc.NumConfigurations = uint8(v)
	}
	if v, err := readUint("bcdDevice", 16, 16); err == nil {
		desc.DeviceVersion = uint16(v)
	}

	// sysfs does not expose the string descriptor indices, only the
	// strings themselves. Devices that have a string put it at the
	// conventional index, so claim 1/2/3 only when sysfs shows the
	// string exists.
	if _, err := readAttr("manufacturer"); err == nil {
		desc.ManufacturerIndex = 1
	}
	if _, err := readAttr("product"); err == nil {
		desc.ProductIndex = 2
	}
	if _, err := readAttr("serial"); err == nil {
		desc.SerialNumberIndex = 3
	}

	return desc, nil
}

// parsePortChain extracts the downstream port chain from a sysfs entry
// name: "2-1.4" gives [1 4], a root hub "usb2" gives nil.
func parsePortChain(name string) []int {
	dash := strings.IndexByte(name, '-')
	if dash < 0 {
		return nil
	}
	var chain []int
	for _, part := range strings.Split(name[dash+1:], ".") {
		port, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		chain = append(chain, port)
	}
	return chain
}

// Descriptor returns the cached device descriptor. The error is non-nil
// when the descriptor attributes were unreadable during enumeration.
func (d *Device) Descriptor() (DeviceDescriptor, error) {
	return d.desc, d.descErr
}

// BusNumber is the number of the bus the device is attached to.
func (d *Device) BusNumber() int {
	return d.bus
}

// Address is the device's address on its bus.
func (d *Device) Address() int {
	return d.address
}

// PortChain is the chain of downstream port numbers from the root hub
// to the device. Empty for root hubs.
func (d *Device) PortChain() []int {
	return append([]int(nil), d.portChain...)
}

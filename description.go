package hubpower

import (
	"fmt"
	"strings"
)

// describeDevice builds a human-readable description:
//
//	"<vid:pid> <vendor> <product> <serial>, <USB x.yz, N ports>"
//
// vid:pid is always present; vendor, product and serial are skipped when
// empty or unreadable, and the trailing hub summary appears only for
// hub-class devices. When the device cannot be opened (typically for
// lack of permission) the vendor and product names fall back to the
// usb.ids database.
func describeDevice(dev Device) string {
	desc, err := dev.Descriptor()
	if err != nil {
		return ""
	}

	idString := fmt.Sprintf("%04x:%04x", desc.VendorID, desc.ProductID)

	handle, err := dev.Open()
	if err != nil {
		return joinDescription(idString,
			VendorName(desc.VendorID),
			ProductName(desc.VendorID, desc.ProductID),
			"", "")
	}
	defer handle.Close()

	readString := func(index uint8) string {
		s, err := handle.StringDescriptor(index)
		if err != nil {
			return ""
		}
		return strings.TrimRight(s, " \t\r\n\x00")
	}

	vendor := readString(desc.ManufacturerIndex)
	product := readString(desc.ProductIndex)
	serial := readString(desc.SerialNumberIndex)

	var hubSummary string
	if desc.DeviceClass == ClassHub {
		superSpeed := desc.USBVersion >= usbVersionSuperSpeed
		if buf, err := handle.HubDescriptor(superSpeed); err == nil && len(buf) >= minHubDescriptorLen {
			hubSummary = fmt.Sprintf(", USB %x.%02x, %d ports",
				desc.USBVersion>>8, desc.USBVersion&0xff, buf[2])
		}
	}

	return joinDescription(idString, vendor, product, serial, hubSummary)
}

func joinDescription(idString, vendor, product, serial, hubSummary string) string {
	var b strings.Builder
	b.WriteString(idString)
	for _, part := range []string{vendor, product, serial} {
		if part != "" {
			b.WriteByte(' ')
			b.WriteString(part)
		}
	}
	b.WriteString(hubSummary)
	return b.String()
}

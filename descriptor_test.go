package hubpower

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbtools/hubpower/usbdev"
)

func TestBuildLocation(t *testing.T) {
	tests := []struct {
		bus   int
		chain []int
		want  string
	}{
		{2, []int{1, 3}, "2-1.3"},
		{2, nil, "2"},
		{1, []int{4}, "1-4"},
		{3, []int{1, 2, 3, 4}, "3-1.2.3.4"},
		// Chains deeper than the USB spec allows are truncated.
		{1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "1-1.2.3.4.5.6.7.8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildLocation(tt.bus, tt.chain))
	}
}

func TestChildLocation(t *testing.T) {
	assert.Equal(t, "2-1.3", childLocation("2-1", 3))
	assert.Equal(t, "2-3", childLocation("2", 3))
	assert.Equal(t, "1-2.4.1", childLocation("1-2.4", 1))
}

func TestReadHubInfo(t *testing.T) {
	dev := newHubDevice(0x0451, 0x8140, 0x0210, 2, []int{1}, 4, charsPPPS)

	hub, err := readHubInfo(dev)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0210), hub.USBVersion)
	assert.Equal(t, 4, hub.Ports)
	assert.True(t, hub.PowerSwitching)
	assert.Equal(t, "0451:8140", hub.Vendor)
	assert.Equal(t, "2-1", hub.Location)
	assert.False(t, hub.Actionable)
	assert.False(t, dev.hubDescSS, "USB 2 hub must use the standard hub descriptor type")
	assert.Equal(t, dev.opens, dev.closes)
}

func TestReadHubInfoSuperSpeed(t *testing.T) {
	dev := newHubDevice(0x0451, 0x8140, 0x0300, 1, []int{1}, 4, charsPPPS)

	hub, err := readHubInfo(dev)
	require.NoError(t, err)
	assert.True(t, hub.SuperSpeed())
	assert.True(t, dev.hubDescSS, "USB 3 hub must use the SuperSpeed hub descriptor type")
}

func TestReadHubInfoNotAHub(t *testing.T) {
	dev := &fakeDevice{
		desc: usbdev.DeviceDescriptor{DeviceClass: 0x03},
		bus:  1, chain: []int{1},
	}

	_, err := readHubInfo(dev)
	assert.ErrorIs(t, err, ErrNotAHub)
	assert.Zero(t, dev.opens)
}

func TestReadHubInfoShortDescriptor(t *testing.T) {
	dev := newHubDevice(0x05e3, 0x0608, 0x0200, 1, []int{1}, 4, charsPPPS)
	dev.hubDesc = dev.hubDesc[:8]

	_, err := readHubInfo(dev)
	assert.ErrorIs(t, err, ErrDescriptorTooShort)
	assert.Equal(t, 1, dev.closes, "handle must be closed on the failure path")
}

func TestReadHubInfoTransferError(t *testing.T) {
	dev := newHubDevice(0x05e3, 0x0608, 0x0200, 1, []int{1}, 4, charsPPPS)
	dev.hubDescErr = fmt.Errorf("control transfer failed: EPIPE")

	_, err := readHubInfo(dev)
	assert.Error(t, err)
	assert.Equal(t, 1, dev.closes)
}

func TestDescribeDevice(t *testing.T) {
	dev := newHubDevice(0x0451, 0x8140, 0x0210, 2, []int{1}, 4, charsPPPS)
	dev.desc.ManufacturerIndex = 1
	dev.desc.ProductIndex = 2
	dev.desc.SerialNumberIndex = 3
	dev.strings = map[uint8]string{
		1: "Texas Instruments",
		2: "TUSB8041  ", // trailing spaces get trimmed
		3: "1234",
	}

	got := describeDevice(dev)
	assert.Equal(t, "0451:8140 Texas Instruments TUSB8041 1234, USB 2.10, 4 ports", got)
}

func TestDescribeDeviceMissingStrings(t *testing.T) {
	dev := newHubDevice(0x05e3, 0x0608, 0x0200, 1, []int{1}, 4, charsPPPS)
	assert.Equal(t, "05e3:0608, USB 2.00, 4 ports", describeDevice(dev))
}

func TestDescribeDeviceUnopenableFallsBackToUSBIDs(t *testing.T) {
	dev := &fakeDevice{
		desc: usbdev.DeviceDescriptor{
			DeviceClass: ClassHub,
			USBVersion:  0x0200,
			VendorID:    0x1d6b,
			ProductID:   0x0002,
		},
		bus: 1, openErr: usbdev.ErrPermissionDenied,
	}
	assert.Equal(t, "1d6b:0002 Linux Foundation 2.0 root hub", describeDevice(dev))
}

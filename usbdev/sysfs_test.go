package usbdev

import (
	"os"
	"testing"
)

func TestParsePortChain(t *testing.T) {
	tests := []struct {
		name string
		want []int
	}{
		{"usb2", nil},
		{"2-1", []int{1}},
		{"2-1.4", []int{1, 4}},
		{"1-10.2.3", []int{10, 2, 3}},
		{"garbage", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePortChain(tt.name)
			if len(got) != len(tt.want) {
				t.Fatalf("parsePortChain(%q) = %v, want %v", tt.name, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("parsePortChain(%q) = %v, want %v", tt.name, got, tt.want)
				}
			}
		})
	}
}

func TestPortChainCopies(t *testing.T) {
	dev := &Device{portChain: []int{1, 2}}
	chain := dev.PortChain()
	chain[0] = 99
	if dev.portChain[0] != 1 {
		t.Error("PortChain must return a copy")
	}
}

func TestEnumerate(t *testing.T) {
	if _, err := os.Stat(sysfsUSBDevices); err != nil {
		t.Skip("no sysfs USB tree on this system")
	}

	devices, err := Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	for _, dev := range devices {
		if dev.Path == "" {
			t.Errorf("device %s has empty path", dev.Name)
		}
		if dev.BusNumber() == 0 {
			t.Errorf("device %s has bus number 0", dev.Name)
		}
		t.Logf("Device %s: bus=%03d addr=%03d path=%s chain=%v",
			dev.Name, dev.BusNumber(), dev.Address(), dev.Path, dev.PortChain())
	}
}

func TestEnumerateDescriptors(t *testing.T) {
	if _, err := os.Stat(sysfsUSBDevices); err != nil {
		t.Skip("no sysfs USB tree on this system")
	}

	devices, err := Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	for _, dev := range devices {
		desc, err := dev.Descriptor()
		if err != nil {
			t.Logf("Device %s: descriptor unreadable: %v", dev.Name, err)
			continue
		}
		if desc.VendorID == 0 && desc.ProductID == 0 {
			t.Errorf("device %s has zero vid:pid", dev.Name)
		}
	}
}

package hubpower

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
)

// usbIDDatabase maps vendor and product ids to names, loaded from the
// usb.ids file shipped by usbutils/hwdata. Used as a fallback when
// string descriptors cannot be read without elevated permissions.
type usbIDDatabase struct {
	vendors map[uint16]usbVendor
	mu      sync.RWMutex
	loaded  bool
}

type usbVendor struct {
	Name     string
	Products map[uint16]string
}

var usbIDSearchPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/usr/share/usb.ids",
	"/var/lib/usbutils/usb.ids",
}

var globalUSBIDs = &usbIDDatabase{
	vendors: map[uint16]usbVendor{
		// Common smart-hub silicon, available even without usb.ids.
		0x1d6b: {Name: "Linux Foundation", Products: map[uint16]string{
			0x0001: "1.1 root hub",
			0x0002: "2.0 root hub",
			0x0003: "3.0 root hub",
		}},
		0x0451: {Name: "Texas Instruments, Inc.", Products: map[uint16]string{
			0x8140: "TUSB8041 4-Port Hub",
			0x8142: "TUSB8041 4-Port Hub",
		}},
		0x05e3: {Name: "Genesys Logic, Inc.", Products: map[uint16]string{
			0x0608: "Hub",
			0x0610: "Hub",
		}},
		0x174c: {Name: "ASMedia Technology Inc.", Products: map[uint16]string{
			0x2074: "ASM1074 High-Speed hub",
			0x3074: "ASM1074 SuperSpeed hub",
		}},
		0x2109: {Name: "VIA Labs, Inc.", Products: map[uint16]string{
			0x2811: "Hub",
			0x3431: "Hub",
		}},
		0x1a40: {Name: "Terminus Technology Inc.", Products: map[uint16]string{
			0x0101: "Hub",
		}},
	},
}

func (db *usbIDDatabase) loadFromFile(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentVendor uint16
	var inVendor bool

	for scanner.Scan() {
		line := scanner.Text()

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		// Class, subclass and protocol sections follow the vendor list.
		if strings.HasPrefix(line, "C ") {
			break
		}

		if strings.HasPrefix(line, "\t") {
			if !inVendor {
				continue
			}
			entry := strings.TrimPrefix(line, "\t")
			if len(entry) < 4 || !isHex(entry[:4]) {
				continue
			}
			pid, err := strconv.ParseUint(entry[:4], 16, 16)
			if err != nil {
				continue
			}
			vendor := db.vendors[currentVendor]
			if vendor.Products == nil {
				vendor.Products = make(map[uint16]string)
			}
			vendor.Products[uint16(pid)] = strings.TrimSpace(entry[4:])
			db.vendors[currentVendor] = vendor
			continue
		}

		if len(line) < 4 || !isHex(line[:4]) {
			inVendor = false
			continue
		}
		vid, err := strconv.ParseUint(line[:4], 16, 16)
		if err != nil {
			continue
		}
		currentVendor = uint16(vid)
		vendor := db.vendors[currentVendor]
		vendor.Name = strings.TrimSpace(line[4:])
		if vendor.Products == nil {
			vendor.Products = make(map[uint16]string)
		}
		db.vendors[currentVendor] = vendor
		inVendor = true
	}

	db.loaded = true
	return scanner.Err()
}

func (db *usbIDDatabase) ensureLoaded() {
	db.mu.RLock()
	loaded := db.loaded
	db.mu.RUnlock()
	if loaded {
		return
	}
	for _, path := range usbIDSearchPaths {
		if err := db.loadFromFile(path); err == nil {
			return
		}
	}
	db.mu.Lock()
	db.loaded = true // no database on this system, stick to seed entries
	db.mu.Unlock()
}

// VendorName returns the usb.ids name for a vendor id, or "".
func VendorName(vid uint16) string {
	globalUSBIDs.ensureLoaded()
	globalUSBIDs.mu.RLock()
	defer globalUSBIDs.mu.RUnlock()
	return globalUSBIDs.vendors[vid].Name
}

// ProductName returns the usb.ids name for a vendor:product pair, or "".
func ProductName(vid, pid uint16) string {
	globalUSBIDs.ensureLoaded()
	globalUSBIDs.mu.RLock()
	defer globalUSBIDs.mu.RUnlock()
	if vendor, ok := globalUSBIDs.vendors[vid]; ok {
		return vendor.Products[pid]
	}
	return ""
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

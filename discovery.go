package hubpower

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Options control one discovery scan.
type Options struct {
	// Location limits actionable hubs to an exact location match,
	// case-insensitive. Empty matches all.
	Location string

	// Vendor limits actionable hubs to vendor strings starting with
	// this prefix, case-insensitive. Empty matches all.
	Vendor string

	// Exact disables USB2/USB3 dual-hub correlation: each persona is
	// treated as an independent hub.
	Exact bool

	// Logger receives scan diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// Discover enumerates the attached USB devices and scans them for
// per-port power switching hubs.
func Discover(opts Options) (*Registry, error) {
	devices, err := SystemDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerate USB devices: %w", err)
	}
	return DiscoverHubs(devices, opts)
}

// DiscoverHubs scans a snapshot of enumerated devices, builds the hub
// registry, applies the location and vendor filters, and correlates
// USB2/USB3 dual personas.
//
// Per-device failures never abort the scan. ErrPermissionDenied is
// returned only when at least one device could not be read and no
// physical hub ended up actionable; an empty registry with full access
// is a successful result with PhysicalCount zero.
func DiscoverHubs(devices []Device, opts Options) (*Registry, error) {
	log := opts.logger()
	reg := &Registry{}
	permProblem := false

	for _, dev := range devices {
		// Skip non-hubs only when the class is actually readable; an
		// unreadable descriptor may still be a hub we lack access to,
		// and counts as a diagnostic signal below.
		if desc, err := dev.Descriptor(); err == nil && desc.DeviceClass != ClassHub {
			continue
		}

		hub, err := readHubInfo(dev)
		if err != nil {
			if !errors.Is(err, ErrNotAHub) {
				permProblem = true
				log.Debug().Err(err).Int("bus", dev.BusNumber()).Msg("hub probe failed")
			}
			continue
		}
		hub.Description = describeDevice(dev)

		if !hub.PowerSwitching {
			log.Debug().Str("location", hub.Location).Str("vendor", hub.Vendor).
				Msg("hub has no per-port power switching")
			continue
		}
		if len(reg.Hubs) >= maxHubs {
			log.Warn().Str("location", hub.Location).Int("limit", maxHubs).
				Msg("hub registry full, ignoring hub")
			continue
		}

		hub.Actionable = true
		if opts.Location != "" && !strings.EqualFold(opts.Location, hub.Location) {
			hub.Actionable = false
		}
		if opts.Vendor != "" && !hasPrefixFold(hub.Vendor, opts.Vendor) {
			hub.Actionable = false
		}
		reg.Hubs = append(reg.Hubs, hub)
	}

	reg.PhysicalCount = correlate(reg.Hubs, opts.Exact)

	if permProblem && reg.PhysicalCount == 0 {
		return reg, ErrPermissionDenied
	}
	return reg, nil
}

// correlate matches USB2/USB3 personas of the same physical hub and
// promotes the partner of each actionable hub to actionable, then
// counts physically distinct actionable hubs. Promotion is monotonic
// and the whole pass is idempotent.
func correlate(hubs []*Hub, exact bool) int {
	if !exact {
		for i, hub := range hubs {
			if !hub.Actionable {
				continue
			}
			match := -1
			for j, other := range hubs {
				if i == j {
					continue
				}
				// A hub and its dual are opposite generations of the
				// same vendor's chassis.
				if hub.SuperSpeed() == other.SuperSpeed() {
					continue
				}
				if !vendorIDMatch(hub.Vendor, other.Vendor) {
					continue
				}
				// Provisional candidate: the first same-vendor hub not
				// already selected. This can pick the wrong partner when
				// several similar hubs are attached, but is the only
				// signal on platforms without real port chains.
				if match < 0 && !other.Actionable {
					match = j
				}
				// An exact port-path suffix match identifies the dual
				// outright and ends the search.
				if pathSuffixMatch(hub.Location, other.Location) {
					match = j
					break
				}
			}
			if match >= 0 {
				hubs[match].Actionable = true
			}
		}
	}

	// Each dual pair has exactly one USB2 persona, so counting the USB2
	// side counts each chassis once. In exact mode every persona is its
	// own hub.
	count := 0
	for _, hub := range hubs {
		if !hub.Actionable {
			continue
		}
		if exact || !hub.SuperSpeed() {
			count++
		}
	}
	return count
}

// vendorIDMatch compares the 4-hex-digit vendor id part of two
// "vvvv:pppp" strings, ignoring the product id.
func vendorIDMatch(a, b string) bool {
	return len(a) >= 4 && len(b) >= 4 && strings.EqualFold(a[:4], b[:4])
}

// pathSuffixMatch compares two locations from the bus separator onward,
// so "2-1.4" matches "1-1.4": dual personas sit on different buses but
// share the downstream port chain.
func pathSuffixMatch(a, b string) bool {
	i := strings.IndexByte(a, '-')
	j := strings.IndexByte(b, '-')
	if i < 0 || j < 0 {
		return false
	}
	return strings.EqualFold(a[i:], b[j:])
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Command hubpower shows and controls USB port power on hubs that
// support per-port power switching. Without an action it prints the
// status of every compatible hub.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/usbtools/hubpower"
)

const version = "0.9.0"

var (
	optLocation = flag.StringP("loc", "l", "", "limit hubs by location (e.g. 2-1.4)")
	optVendor   = flag.StringP("vendor", "n", "", "limit hubs by vendor id prefix (e.g. 0451)")
	optPorts    = flag.StringP("ports", "p", "all", "ports to operate on (comma separated)")
	optAction   = flag.StringP("action", "a", "", "set port power on or off")
	optExact    = flag.BoolP("exact", "e", false, "exact location only (no USB3 duality handling)")
	optDebug    = flag.Bool("debug", false, "enable debug logging")
	optVersion  = flag.BoolP("version", "v", false, "print program version")
)

func main() {
	flag.Parse()

	if *optVersion {
		fmt.Println(version)
		return
	}

	level := zerolog.WarnLevel
	if *optDebug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	portMask, err := parsePorts(*optPorts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --ports value: %v\n", err)
		os.Exit(1)
	}

	var powerOn, haveAction bool
	switch strings.ToLower(*optAction) {
	case "":
	case "on", "1":
		powerOn, haveAction = true, true
	case "off", "0":
		powerOn, haveAction = false, true
	default:
		fmt.Fprintf(os.Stderr, "invalid --action value %q (want on or off)\n", *optAction)
		os.Exit(1)
	}

	devices, err := hubpower.SystemDevices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot enumerate USB devices: %v\n", err)
		os.Exit(1)
	}

	registry, err := hubpower.DiscoverHubs(devices, hubpower.Options{
		Location: *optLocation,
		Vendor:   *optVendor,
		Exact:    *optExact,
		Logger:   &log,
	})
	if err != nil || registry.PhysicalCount == 0 {
		where := ""
		if *optLocation != "" {
			where = " at location " + *optLocation
		}
		fmt.Fprintf(os.Stderr, "No compatible smart hubs detected%s!\n", where)
		if errors.Is(err, hubpower.ErrPermissionDenied) {
			fmt.Fprint(os.Stderr,
				"There were permission problems while accessing USB.\n"+
					"Run this tool as root, or add a udev rule like\n"+
					"SUBSYSTEM==\"usb\", ATTR{idVendor}==\"2001\", MODE=\"0666\"\n"+
					"to /etc/udev/rules.d/52-usb.rules and re-trigger udev.\n")
		}
		os.Exit(1)
	}

	if haveAction && registry.PhysicalCount > 1 {
		fmt.Fprint(os.Stderr,
			"Error: changing port state for multiple hubs at once is not supported.\n"+
				"Use -l to limit operation to one hub!\n")
		os.Exit(1)
	}

	for _, hub := range registry.Actionable() {
		fmt.Printf("Current status for %s\n", hub)
		printPorts(hub, devices, portMask, &log)

		if !haveAction {
			continue
		}
		if err := hubpower.SetPortsPower(hub, portMask, powerOn, &log); err != nil {
			log.Error().Err(err).Str("hub", hub.Location).Msg("power action failed")
			continue
		}
		state := "off"
		if powerOn {
			state = "on"
		}
		fmt.Printf("Sent power %s request\n", state)
		fmt.Printf("New status for %s\n", hub)
		printPorts(hub, devices, portMask, &log)
	}
}

func printPorts(hub *hubpower.Hub, devices []hubpower.Device, portMask int, log *zerolog.Logger) {
	reports, err := hubpower.ReportPorts(hub, devices, portMask, log)
	if err != nil {
		log.Error().Err(err).Str("hub", hub.Location).Msg("cannot read port status")
		return
	}
	for _, r := range reports {
		if !r.Known {
			fmt.Printf("  Port %d: ????\n", r.Port)
			continue
		}
		fmt.Printf("  Port %d: %04x", r.Port, r.Status.Raw)
		for _, label := range r.Status.Labels() {
			fmt.Printf(" %s", label)
		}
		if r.Description != "" {
			fmt.Printf(" [%s]", r.Description)
		}
		fmt.Println()
	}
}

// parsePorts turns "all" or a comma-separated port list like "1,3" into
// a bitmask with bit 0 meaning port 1. Zero selects all ports.
func parsePorts(s string) (int, error) {
	if strings.EqualFold(s, "all") || s == "" {
		return 0, nil
	}
	mask := 0
	for _, part := range strings.Split(s, ",") {
		port, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		if port < 1 || port > 32 {
			return 0, fmt.Errorf("port %d out of range 1..32", port)
		}
		mask |= 1 << (port - 1)
	}
	return mask, nil
}

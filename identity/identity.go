// Package identity resolves the 4-digit machine id tagging a monitor run.
package identity

import (
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"path/filepath"

	"github.com/soakops/soakmon/model"
)

// Resolve returns the identity for a log file. An explicit override always
// wins; otherwise the filename is scanned for an isolated 4-digit token;
// otherwise a hardware-derived default is used.
func Resolve(path, override string) model.RunIdentity {
	if override != "" {
		return model.RunIdentity{MachineID: override}
	}
	if id, ok := FromFilename(path); ok {
		return model.RunIdentity{MachineID: id}
	}
	return model.RunIdentity{MachineID: DefaultMachineID()}
}

// FromFilename scans the base name for the first run of exactly four digits
// that is not adjacent to another digit. Longer digit runs (dates, epoch
// fields) never qualify, so `app_1234_20231025_monitor.csv` yields "1234".
// Implemented as an explicit adjacency scan: run boundaries are non-digits
// by construction.
func FromFilename(path string) (string, bool) {
	base := filepath.Base(path)
	for i := 0; i < len(base); {
		if !isDigit(base[i]) {
			i++
			continue
		}
		j := i
		for j < len(base) && isDigit(base[j]) {
			j++
		}
		if j-i == 4 {
			return base[i:j], true
		}
		i = j
	}
	return "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// DefaultMachineID derives a stable 4-digit id for this host: the first
// non-loopback interface's MAC reduced mod 10000, falling back to a
// hostname hash, then to "0000". Deterministic for a given host.
func DefaultMachineID() string {
	if ifaces, err := net.Interfaces(); err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			if len(iface.HardwareAddr) == 0 {
				continue
			}
			var v uint64
			for _, b := range iface.HardwareAddr {
				v = v<<8 | uint64(b)
			}
			return fmt.Sprintf("%04d", v%10000)
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		h := fnv.New32a()
		h.Write([]byte(host))
		return fmt.Sprintf("%04d", h.Sum32()%10000)
	}
	return "0000"
}

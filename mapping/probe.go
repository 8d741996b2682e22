package mapping

import (
	"os"
	"runtime"
	"strings"

	"ultracol/mapping/platform"
)

// Probe reports which advanced mapping features the running kernel and
// hardware actually support, so callers can decide whether to request huge
// pages, NUMA placement or SIMD-accelerated helpers before paying for a
// failed mapping attempt.
type Probe struct{}

// NewProbe returns a Probe bound to the platform backend compiled in for
// this GOOS.
func NewProbe() *Probe {
	return &Probe{}
}

// HasHugePageSupport reports whether the kernel has huge pages configured
// and available.
func (*Probe) HasHugePageSupport() bool {
	return platform.Current().HasHugePageSupport()
}

// HasNUMASupport reports whether the host exposes NUMA topology: on Linux,
// whether /sys/devices/system/node/node0 exists; false on other platforms.
func (*Probe) HasNUMASupport() bool {
	return platform.Current().HasNUMASupport()
}

// HasSIMDSupport reports whether the running architecture exposes a usable
// SIMD instruction set. This package does not ship vectorized code paths; it
// only answers the boolean probe, so no dependency on a CPU-feature-flags
// library is warranted. amd64 always has at least SSE2 and arm64 always has
// NEON, so both report true without further checks. On other architectures
// running Linux, /proc/cpuinfo is scanned for an avx2 flag.
func (*Probe) HasSIMDSupport() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	}
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil && strings.Contains(string(data), "avx2") {
			return true
		}
	}
	return false
}

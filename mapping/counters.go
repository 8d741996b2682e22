package mapping

import "sync/atomic"

// Process-wide advisory counters. These are not used for synchronization;
// they exist so a host process can report how much of its address space is
// currently backed by mappings created through this package.
var (
	totalBytesMapped int64
	activeMappings   int64
)

func addMapping(size int64) {
	atomic.AddInt64(&totalBytesMapped, size)
	atomic.AddInt64(&activeMappings, 1)
}

func removeMapping(size int64) {
	atomic.AddInt64(&totalBytesMapped, -size)
	atomic.AddInt64(&activeMappings, -1)
}

// TotalBytesMapped returns the current sum of all live mapping lengths
// created through this package, relaxed with respect to concurrent callers.
func TotalBytesMapped() int64 {
	return atomic.LoadInt64(&totalBytesMapped)
}

// ActiveMappingCount returns the number of mappings currently open.
func ActiveMappingCount() int64 {
	return atomic.LoadInt64(&activeMappings)
}

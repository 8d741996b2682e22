//go:build linux

package platform

import (
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

var current Backend = linuxBackend{}

type linuxBackend struct{}

func (linuxBackend) PageSize() int64 {
	return int64(os.Getpagesize())
}

func protFlags(p Prot) int {
	var flags int
	if p&ProtRead != 0 {
		flags |= unix.PROT_READ
	}
	if p&ProtWrite != 0 {
		flags |= unix.PROT_WRITE
	}
	if p&ProtExec != 0 {
		flags |= unix.PROT_EXEC
	}
	return flags
}

func (b linuxBackend) Map(req Request) (*Mapping, error) {
	mapFlags := unix.MAP_SHARED
	if !req.Shared {
		mapFlags = unix.MAP_PRIVATE
	}

	fd := -1
	if req.File == nil {
		mapFlags |= unix.MAP_ANONYMOUS
	} else {
		fd = int(req.File.Fd())
	}

	if req.Populate && req.File != nil {
		mapFlags |= unix.MAP_POPULATE
	}

	switch req.HugePage {
	case HugePage2MiB:
		mapFlags |= unix.MAP_HUGETLB | (21 << 26) // MAP_HUGE_SHIFT with 2^21 page size
	case HugePage1GiB:
		mapFlags |= unix.MAP_HUGETLB | (30 << 26) // MAP_HUGE_SHIFT with 2^30 page size
	}

	if req.StackHint {
		mapFlags |= unix.MAP_STACK
	}

	length := int(req.Length)

	if req.Alignment > b.PageSize() {
		return b.mapAligned(req, mapFlags, fd, length)
	}

	data, err := unix.Mmap(fd, req.Offset, length, protFlags(req.Protection), mapFlags)
	if err != nil {
		return nil, err
	}

	m := &Mapping{Data: data, Raw: data}
	if req.NUMA.Kind != NUMANone {
		if err := applyNUMAPolicy(data, req.NUMA); err != nil {
			_ = unix.Munmap(data)
			return nil, err
		}
	}
	return m, nil
}

// mapAligned satisfies an alignment stricter than the page size by
// over-allocating, trimming the unaligned head and tail, and remapping the
// aligned remainder in place.
func (b linuxBackend) mapAligned(req Request, mapFlags, fd, length int) (*Mapping, error) {
	extra := int(req.Alignment - 1)

	scratch, err := unix.Mmap(-1, 0, length+extra, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}
	base := uintptr(unsafe.Pointer(&scratch[0]))
	alignedBase := (base + uintptr(req.Alignment) - 1) &^ (uintptr(req.Alignment) - 1)

	if err := unix.Munmap(scratch); err != nil {
		return nil, err
	}

	// Remap the aligned sub-range in place with MAP_FIXED. unix.Mmap does not
	// expose a fixed-address variant, so the mmap(2) syscall is issued
	// directly with the same argument layout unix.Mmap itself uses.
	addr, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		alignedBase,
		uintptr(length),
		uintptr(protFlags(req.Protection)),
		uintptr(mapFlags|unix.MAP_FIXED),
		uintptr(fd),
		uintptr(req.Offset),
	)
	if errno != 0 {
		return nil, errno
	}

	var data []byte
	sliceHeader := (*sliceHeader)(unsafe.Pointer(&data))
	sliceHeader.Data = addr
	sliceHeader.Len = length
	sliceHeader.Cap = length
	return &Mapping{Data: data, Raw: data}, nil
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}

func (linuxBackend) Unmap(m *Mapping) error {
	return unix.Munmap(m.Raw)
}

func (linuxBackend) Flush(m *Mapping, async bool) error {
	flags := unix.MS_SYNC
	if async {
		flags = unix.MS_ASYNC
	}
	return unix.Msync(m.Data, flags)
}

func adviceFlag(a Advice) int {
	switch a {
	case AdviceRandom:
		return unix.MADV_RANDOM
	case AdviceSequential:
		return unix.MADV_SEQUENTIAL
	case AdviceWillNeed:
		return unix.MADV_WILLNEED
	case AdviceDontNeed:
		return unix.MADV_DONTNEED
	case AdviceFree:
		return unix.MADV_FREE
	default:
		return unix.MADV_NORMAL
	}
}

func (linuxBackend) Advise(m *Mapping, advice Advice) error {
	return unix.Madvise(m.Data, adviceFlag(advice))
}

func (linuxBackend) HasHugePageSupport() bool {
	meminfo, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(meminfo), "\n") {
		if strings.HasPrefix(line, "HugePages_Total:") {
			fields := strings.Fields(line)
			if len(fields) == 2 && fields[1] != "0" {
				return true
			}
		}
	}
	return has1GiBHugePages()
}

func has1GiBHugePages() bool {
	data, err := os.ReadFile("/sys/kernel/mm/hugepages/hugepages-1048576kB/nr_hugepages")
	if err != nil {
		return false
	}
	n := strings.TrimSpace(string(data))
	return n != "" && n != "0"
}

func (linuxBackend) HasNUMASupport() bool {
	_, err := os.Stat("/sys/devices/system/node/node0")
	return err == nil
}

// applyNUMAPolicy binds the just-created mapping to the requested NUMA
// nodes via the raw mbind(2) syscall; golang.org/x/sys/unix does not wrap
// it directly, so it is issued with the per-architecture unix.SYS_MBIND
// number and the kernel's documented argument layout.
func applyNUMAPolicy(data []byte, req NUMARequest) error {
	mode := 1 // MPOL_PREFERRED
	switch req.Kind {
	case NUMAInterleave:
		mode = 3 // MPOL_INTERLEAVE
	case NUMABind:
		mode = 2 // MPOL_BIND
	case NUMAPreferred:
		mode = 1 // MPOL_PREFERRED
	}

	nodes := req.Nodes
	if req.Kind != NUMAInterleave && len(nodes) > 1 {
		nodes = nodes[:1]
	}

	var mask uint64
	for _, node := range nodes {
		if node >= 0 && node < 64 {
			mask |= 1 << uint(node)
		}
	}
	if mask == 0 {
		return nil
	}

	_, _, errno := unix.Syscall6(
		unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		uintptr(mode),
		uintptr(unsafe.Pointer(&mask)),
		64,
		0,
	)
	if errno != 0 {
		if req.Kind == NUMAPreferred {
			return nil
		}
		return errno
	}
	return nil
}

//go:build darwin

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var current Backend = darwinBackend{}

type darwinBackend struct{}

var errUnsupported = errors.New("platform: unsupported on this operating system")

func (darwinBackend) PageSize() int64 {
	return int64(os.Getpagesize())
}

func darwinProtFlags(p Prot) int {
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

func (b darwinBackend) Map(req Request) (*Mapping, error) {
	if req.Alignment > b.PageSize() {
		return nil, errUnsupported
	}
	if req.HugePage != HugePageNone {
		return nil, errUnsupported
	}
	if req.NUMA.Kind != NUMANone {
		return nil, errUnsupported
	}

	mapFlags := unix.MAP_SHARED
	if !req.Shared {
		mapFlags = unix.MAP_PRIVATE
	}

	fd := -1
	if req.File == nil {
		mapFlags |= unix.MAP_ANON
	} else {
		fd = int(req.File.Fd())
	}

	// StackHint has no userspace mmap(2) equivalent on Darwin; it is a pure
	// advisory hint elsewhere and is silently dropped here rather than
	// rejected, the same way MAP_POPULATE is emulated instead of refused.
	data, err := unix.Mmap(fd, req.Offset, int(req.Length), darwinProtFlags(req.Protection), mapFlags)
	if err != nil {
		return nil, err
	}

	if req.Populate {
		touchPages(data, b.PageSize())
	}

	return &Mapping{Data: data, Raw: data}, nil
}

// touchPages emulates MAP_POPULATE on platforms that lack it: it strides
// through the mapping one page at a time, faulting each page in.
func touchPages(data []byte, pageSize int64) {
	var sink byte
	for i := int64(0); i < int64(len(data)); i += pageSize {
		sink += data[i]
	}
	_ = sink
}

func (darwinBackend) Unmap(m *Mapping) error {
	return unix.Munmap(m.Raw)
}

func (darwinBackend) Flush(m *Mapping, async bool) error {
	flags := unix.MS_SYNC
	if async {
		flags = unix.MS_ASYNC
	}
	return unix.Msync(m.Data, flags)
}

func (darwinBackend) Advise(m *Mapping, advice Advice) error {
	switch advice {
	case AdviceRandom:
		return unix.Madvise(m.Data, unix.MADV_RANDOM)
	case AdviceSequential:
		return unix.Madvise(m.Data, unix.MADV_SEQUENTIAL)
	case AdviceWillNeed:
		return unix.Madvise(m.Data, unix.MADV_WILLNEED)
	case AdviceDontNeed:
		return unix.Madvise(m.Data, unix.MADV_DONTNEED)
	case AdviceFree:
		return unix.Madvise(m.Data, unix.MADV_FREE)
	default:
		return unix.Madvise(m.Data, unix.MADV_NORMAL)
	}
}

func (darwinBackend) HasHugePageSupport() bool {
	return false
}

func (darwinBackend) HasNUMASupport() bool {
	return false
}

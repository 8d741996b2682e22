package mapping

import (
	"os"

	"ultracol/mapping/internal/align"
	"ultracol/mapping/platform"
)

// View is a read-only window over a mapped region. The view owns the
// backend mapping handle; accessors hand out borrowed byte slices that must
// not be retained past Close.
type View struct {
	mapping *platform.Mapping
	backend platform.Backend
	length  int64
	closed  bool
}

// MutableView is a View that additionally allows writes and flushing
// modified pages back to their backing file.
type MutableView struct {
	View
}

// Open creates a read-only mapping according to opts.
func Open(opts *Options) (*View, error) {
	v, err := mapCommon(opts)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// OpenMutable creates a writable mapping according to opts. It forces
// ProtWrite on regardless of what opts already requested.
func OpenMutable(opts *Options) (*MutableView, error) {
	opts.protection |= ProtWrite
	v, err := mapCommon(opts)
	if err != nil {
		return nil, err
	}
	return &MutableView{View: *v}, nil
}

func mapCommon(opts *Options) (*View, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	backend := platform.Current()
	pageSize := backend.PageSize()

	if opts.alignment != 0 && opts.alignment < pageSize {
		return nil, newError(ErrAlignment, "map", nil)
	}

	var file *os.File
	var err error
	if !opts.anonymous {
		flag := os.O_RDONLY
		if opts.protection&ProtWrite != 0 {
			flag = os.O_RDWR
		}
		file, err = os.OpenFile(opts.path, flag, 0)
		if err != nil {
			return nil, newPathError(ErrIO, "map", opts.path, err)
		}
		defer file.Close()

		info, statErr := file.Stat()
		if statErr != nil {
			return nil, newPathError(ErrIO, "map", opts.path, statErr)
		}
		if opts.offset+opts.length > info.Size() {
			return nil, newPathError(ErrInvalidArgument, "map", opts.path, nil)
		}
	}

	// The caller's offset need not be page-aligned: it is rounded down to
	// the nearest page boundary before mapping, and the delta is added back
	// to the view the caller sees so the exact requested byte range is
	// exposed, with the underlying alignment requirement absorbed
	// transparently.
	alignedOffset := align.Down(opts.offset, pageSize)
	delta := opts.offset - alignedOffset

	req := platform.Request{
		File:       file,
		Offset:     alignedOffset,
		Length:     opts.length + delta,
		Protection: platform.Prot(opts.protection),
		Shared:     opts.shared,
		Populate:   opts.populate,
		Alignment:  opts.alignment,
		StackHint:  opts.stackHint,
		HugePage:   platform.HugePage(opts.hugePage),
		NUMA: platform.NUMARequest{
			Kind:  platform.NUMAKind(opts.numa.Kind),
			Nodes: opts.numa.Nodes,
		},
	}

	m, err := backend.Map(req)
	if err != nil {
		kind := ErrIO
		switch req.HugePage {
		case platform.HugePage2MiB, platform.HugePage1GiB:
			kind = ErrHugePageFailed
		}
		if req.NUMA.Kind != platform.NUMANone {
			kind = ErrNUMAFailed
		}
		path := opts.path
		return nil, newPathError(kind, "map", path, err)
	}
	m.Data = m.Raw[delta : delta+opts.length]

	v := &View{mapping: m, backend: backend, length: opts.length}
	addMapping(opts.length)
	applyPrefetch(v, opts)
	return v, nil
}

func applyPrefetch(v *View, opts *Options) {
	switch opts.prefetch {
	case PrefetchSequential:
		n := sequentialPrefetchPages * v.backend.PageSize()
		if n > v.length {
			n = v.length
		}
		touchPrefix(v.mapping.Data, n, v.backend.PageSize())
	case PrefetchCustom:
		n := opts.prefetchN
		if n > v.length {
			n = v.length
		}
		touchPrefix(v.mapping.Data, n, v.backend.PageSize())
	}
}

// touchPrefix faults in the first n bytes of data by issuing one read per
// page, priming the kernel's page cache ahead of real access.
func touchPrefix(data []byte, n, pageSize int64) {
	var sink byte
	for i := int64(0); i < n && i < int64(len(data)); i += pageSize {
		sink += data[i]
	}
	_ = sink
}

// Len returns the length of the mapped region in bytes.
func (v *View) Len() int64 {
	return v.length
}

// Bytes returns the mapped region as a borrowed byte slice. The slice is
// valid until Close is called.
func (v *View) Bytes() []byte {
	return v.mapping.Data
}

// Advise communicates an access pattern hint to the kernel for this
// mapping's range.
func (v *View) Advise(advice Advice) error {
	if v.closed {
		return newError(ErrInvalidArgument, "advise", nil)
	}
	if err := v.backend.Advise(v.mapping, platform.Advice(advice)); err != nil {
		return newError(ErrPlatform, "advise", err)
	}
	return nil
}

// Close unmaps the region. Close is idempotent; calling it more than once
// returns nil.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	removeMapping(v.length)
	if err := v.backend.Unmap(v.mapping); err != nil {
		return newError(ErrIO, "close", err)
	}
	return nil
}

// Flush writes modified pages back to the backing file. If async is true,
// Flush returns once the write has been scheduled rather than waiting for
// it to land on stable storage.
func (v *MutableView) Flush(async bool) error {
	if v.closed {
		return newError(ErrInvalidArgument, "flush", nil)
	}
	if err := v.backend.Flush(v.mapping, async); err != nil {
		return newError(ErrIO, "flush", err)
	}
	return nil
}

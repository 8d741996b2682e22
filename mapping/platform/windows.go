//go:build windows

package platform

import (
	"errors"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var current Backend = windowsBackend{}

type windowsBackend struct{}

var errUnsupported = errors.New("platform: unsupported on this operating system")

var systemPageSize = func() int64 {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int64(info.PageSize)
}()

func (windowsBackend) PageSize() int64 {
	return systemPageSize
}

func protectFlags(p Prot) uint32 {
	switch {
	case p&ProtExec != 0 && p&ProtWrite != 0:
		return windows.PAGE_EXECUTE_READWRITE
	case p&ProtExec != 0:
		return windows.PAGE_EXECUTE_READ
	case p&ProtWrite != 0:
		return windows.PAGE_READWRITE
	default:
		return windows.PAGE_READONLY
	}
}

func accessFlags(p Prot) uint32 {
	var access uint32 = windows.FILE_MAP_READ
	if p&ProtWrite != 0 {
		access = windows.FILE_MAP_WRITE
	}
	if p&ProtExec != 0 {
		access |= windows.FILE_MAP_EXECUTE
	}
	return access
}

func (b windowsBackend) Map(req Request) (*Mapping, error) {
	if req.HugePage != HugePageNone {
		return nil, errUnsupported
	}
	if req.NUMA.Kind != NUMANone {
		return nil, errUnsupported
	}
	// StackHint has no CreateFileMapping/VirtualAlloc equivalent on Windows;
	// it is silently dropped, matching the Darwin backend's treatment of the
	// same hint.

	if req.File == nil {
		return b.mapAnonymous(req)
	}

	if req.Alignment > b.PageSize() {
		return nil, errUnsupported
	}

	size := uint64(req.Offset + req.Length)
	h, err := windows.CreateFileMapping(windows.Handle(req.File.Fd()), nil, protectFlags(req.Protection), uint32(size>>32), uint32(size), nil)
	if err != nil {
		return nil, err
	}

	addr, err := windows.MapViewOfFile(h, accessFlags(req.Protection), uint32(uint64(req.Offset)>>32), uint32(uint64(req.Offset)), uintptr(req.Length))
	if err != nil {
		windows.CloseHandle(h)
		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), req.Length)
	if req.Populate {
		touchPages(data, b.PageSize())
	}

	return &Mapping{Data: data, Raw: data}, newHandleMapping(h, data)
}

// newHandleMapping exists purely to keep the file-mapping handle reachable
// for Unmap without widening the exported Mapping struct; the handle is
// stashed in the package-level registry keyed by the slice's base address.
func newHandleMapping(h windows.Handle, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	handleRegistry.Store(unsafe.Pointer(&data[0]), h)
	return nil
}

var handleRegistry = &addrHandleMap{m: map[unsafe.Pointer]windows.Handle{}}

// addrHandleMap guards the file-mapping-handle side table with a mutex: Map,
// Unmap and Flush can all run concurrently for distinct mappings, so plain
// map access here would race.
type addrHandleMap struct {
	mu sync.Mutex
	m  map[unsafe.Pointer]windows.Handle
}

func (a *addrHandleMap) Store(key unsafe.Pointer, h windows.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[key] = h
}

func (a *addrHandleMap) Load(key unsafe.Pointer) (windows.Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.m[key]
	return h, ok
}

func (a *addrHandleMap) LoadAndDelete(key unsafe.Pointer) (windows.Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.m[key]
	if ok {
		delete(a.m, key)
	}
	return h, ok
}

// mapAnonymous handles anonymous mappings. Unlike file-backed mappings,
// anonymous memory has no file identity a partial unmap could corrupt, so a
// caller-requested alignment stricter than the page size is honored here via
// a reserve-then-commit two-step, even though the same request is rejected
// for file-backed mappings above.
func (b windowsBackend) mapAnonymous(req Request) (*Mapping, error) {
	if req.Alignment <= b.PageSize() {
		addr, err := windows.VirtualAlloc(0, uintptr(req.Length), windows.MEM_COMMIT|windows.MEM_RESERVE, protectFlags(req.Protection))
		if err != nil {
			return nil, err
		}
		data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), req.Length)
		return &Mapping{Data: data, Raw: data}, nil
	}

	extra := uintptr(req.Alignment - 1)
	reserveAddr, err := windows.VirtualAlloc(0, uintptr(req.Length)+extra, windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}
	aligned := (reserveAddr + uintptr(req.Alignment) - 1) &^ (uintptr(req.Alignment) - 1)

	if err := windows.VirtualFree(reserveAddr, 0, windows.MEM_RELEASE); err != nil {
		return nil, err
	}

	committed, err := windows.VirtualAlloc(aligned, uintptr(req.Length), windows.MEM_COMMIT|windows.MEM_RESERVE, protectFlags(req.Protection))
	if err != nil {
		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(committed)), req.Length)
	return &Mapping{Data: data, Raw: data}, nil
}

func touchPages(data []byte, pageSize int64) {
	var sink byte
	for i := int64(0); i < int64(len(data)); i += pageSize {
		sink += data[i]
	}
	_ = sink
}

func (windowsBackend) Unmap(m *Mapping) error {
	if len(m.Data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&m.Data[0]))
	if h, ok := handleRegistry.LoadAndDelete(unsafe.Pointer(&m.Data[0])); ok {
		if err := windows.UnmapViewOfFile(addr); err != nil {
			return err
		}
		return windows.CloseHandle(h)
	}
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

func (windowsBackend) Flush(m *Mapping, async bool) error {
	if len(m.Data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&m.Data[0]))
	if err := windows.FlushViewOfFile(addr, uintptr(len(m.Data))); err != nil {
		return err
	}
	if async {
		return nil
	}
	if h, ok := handleRegistry.Load(unsafe.Pointer(&m.Data[0])); ok {
		return windows.FlushFileBuffers(h)
	}
	return nil
}

func (windowsBackend) Advise(m *Mapping, advice Advice) error {
	switch advice {
	case AdviceWillNeed:
		if len(m.Data) == 0 {
			return nil
		}
		touchPages(m.Data, systemPageSize)
		return nil
	case AdviceDontNeed, AdviceFree:
		if len(m.Data) == 0 {
			return nil
		}
		addr := uintptr(unsafe.Pointer(&m.Data[0]))
		return windows.VirtualUnlock(addr, uintptr(len(m.Data)))
	default:
		return nil
	}
}

func (windowsBackend) HasHugePageSupport() bool {
	return false
}

func (windowsBackend) HasNUMASupport() bool {
	return false
}

package mapping

// Protection describes the memory protection requested for a mapping.
type Protection int

const (
	// ProtRead allows reads only.
	ProtRead Protection = 1 << iota
	// ProtWrite allows writes. Implies ProtRead is meaningful alongside it;
	// write-only mappings are not offered, matching every supported platform.
	ProtWrite
	// ProtExec allows execution of mapped bytes.
	ProtExec
)

// Options configures a single mapping request. Use NewOptions to build one;
// zero-value Options is never passed to the platform backend directly.
type Options struct {
	path       string
	anonymous  bool
	offset     int64
	length     int64
	protection Protection
	populate   bool
	shared     bool
	alignment  int64 // 0 means "page size", otherwise a power of two >= page size
	hugePage   HugePageSize
	numa       NUMAPolicy
	prefetch   PrefetchKind
	prefetchN  int64
	stackHint  bool
}

// NewOptions returns an Options requesting a shared, read-only mapping of
// length bytes backed by path at the given offset. Call WithProtection to
// request write access, or use OpenMutable which forces it on.
func NewOptions(path string, offset, length int64) *Options {
	return &Options{
		path:       path,
		offset:     offset,
		length:     length,
		protection: ProtRead,
		shared:     true,
	}
}

// NewAnonymousOptions returns an Options requesting a length-byte anonymous
// mapping with no backing file, read-only by default.
func NewAnonymousOptions(length int64) *Options {
	return &Options{
		anonymous:  true,
		length:     length,
		protection: ProtRead,
		shared:     true,
	}
}

// WithProtection overrides the requested protection flags.
func (o *Options) WithProtection(p Protection) *Options {
	o.protection = p
	return o
}

// WithPopulate requests that pages be pre-faulted at mapping time rather than
// on first access.
func (o *Options) WithPopulate(populate bool) *Options {
	o.populate = populate
	return o
}

// WithPrivate requests copy-on-write semantics instead of a shared mapping.
func (o *Options) WithPrivate() *Options {
	o.shared = false
	return o
}

// WithAlignment requests a custom alignment, which must be a power of two no
// smaller than the platform page size. A value of 0 requests default
// (page-size) alignment.
func (o *Options) WithAlignment(align int64) *Options {
	o.alignment = align
	return o
}

// WithHugePages requests a non-default backing page size.
func (o *Options) WithHugePages(size HugePageSize) *Options {
	o.hugePage = size
	return o
}

// WithNUMAPolicy requests NUMA-aware placement.
func (o *Options) WithNUMAPolicy(policy NUMAPolicy) *Options {
	o.numa = policy
	return o
}

// WithPrefetch requests the mapping be primed according to kind immediately
// after creation. n is only consulted when kind is PrefetchCustom.
func (o *Options) WithPrefetch(kind PrefetchKind, n int64) *Options {
	o.prefetch = kind
	o.prefetchN = n
	return o
}

// WithStackHint marks the mapping as backing a thread stack, letting the
// platform backend pick stack-appropriate placement (e.g. Linux MAP_STACK)
// where one is available. Platforms with no such hint ignore it.
func (o *Options) WithStackHint(stack bool) *Options {
	o.stackHint = stack
	return o
}

// validate checks invariants that are independent of any platform backend.
func (o *Options) validate() error {
	if o.length <= 0 {
		return newError(ErrZeroSizedMapping, "validate", nil)
	}
	if o.alignment != 0 && (o.alignment&(o.alignment-1)) != 0 {
		return newError(ErrAlignment, "validate", nil)
	}
	if o.protection&ProtWrite != 0 && o.protection&ProtRead == 0 {
		return newError(ErrProtection, "validate", nil)
	}
	if !o.anonymous && o.path == "" {
		return newError(ErrInvalidArgument, "validate", nil)
	}
	if o.offset < 0 {
		return newError(ErrInvalidArgument, "validate", nil)
	}
	return nil
}

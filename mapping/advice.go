package mapping

// Advice communicates an expected access pattern to the kernel for a mapped
// range. The names are wire-stable (see spec.md §6, Access-advice enum).
type Advice int

const (
	// AdviceNormal applies no special treatment. Default.
	AdviceNormal Advice = iota
	// AdviceRandom expects page references in random order.
	AdviceRandom
	// AdviceSequential expects page references in sequential order.
	AdviceSequential
	// AdviceWillNeed expects the range to be accessed in the near future.
	AdviceWillNeed
	// AdviceDontNeed does not expect the range to be accessed in the near future.
	AdviceDontNeed
	// AdviceSequentialOnce is sequential access that will not be repeated.
	AdviceSequentialOnce
	// AdviceRandomOnce is random access that will not be repeated.
	AdviceRandomOnce
	// AdviceFree marks the range as eligible for immediate reclaim; its
	// content becomes undefined until next written.
	AdviceFree
)

// String renders the wire-stable advice name.
func (a Advice) String() string {
	switch a {
	case AdviceNormal:
		return "normal"
	case AdviceRandom:
		return "random"
	case AdviceSequential:
		return "sequential"
	case AdviceWillNeed:
		return "will_need"
	case AdviceDontNeed:
		return "dont_need"
	case AdviceSequentialOnce:
		return "sequential_once"
	case AdviceRandomOnce:
		return "random_once"
	case AdviceFree:
		return "free"
	default:
		return "unknown"
	}
}

// PrefetchKind selects how a mapping is primed immediately after creation.
type PrefetchKind int

const (
	// PrefetchNone applies no prefetch strategy.
	PrefetchNone PrefetchKind = iota
	// PrefetchSequential touches the first few pages to warm the cache.
	PrefetchSequential
	// PrefetchRandom is a documented no-op: random access patterns gain
	// nothing from prefetching a contiguous prefix.
	PrefetchRandom
	// PrefetchCustom touches a caller-specified number of leading bytes.
	PrefetchCustom
)

// sequentialPrefetchPages is how many leading pages PrefetchSequential touches.
const sequentialPrefetchPages = 4

// NUMAPolicyKind selects how a mapping is placed relative to NUMA nodes.
type NUMAPolicyKind int

const (
	// NUMANone applies no NUMA policy.
	NUMANone NUMAPolicyKind = iota
	// NUMAInterleave interleaves pages round-robin across the given nodes.
	NUMAInterleave
	// NUMABind restricts allocation to a single node, failing if unavailable.
	NUMABind
	// NUMAPreferred prefers a single node but falls back silently.
	NUMAPreferred
)

// NUMAPolicy configures NUMA-aware placement for a mapping.
type NUMAPolicy struct {
	Kind  NUMAPolicyKind
	Nodes []int // interpreted per Kind: all nodes for Interleave, first node for Bind/Preferred
}

// HugePageSize selects a non-default backing page size.
type HugePageSize int

const (
	// HugePageNone requests the platform's default page size.
	HugePageNone HugePageSize = iota
	// HugePage2MiB requests 2 MiB backing pages.
	HugePage2MiB
	// HugePage1GiB requests 1 GiB backing pages.
	HugePage1GiB
)

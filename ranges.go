package awsipranges

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Ranges is a queryable collection of published AWS IP prefixes: the
// document metadata, the per-version prefix sequences in ascending network
// order, and one built trie per IP version.
//
// A Ranges is immutable after construction. Queries return new values or
// new collections and never mutate the receiver, so a single Ranges may be
// shared for concurrent reads, including concurrent Filter calls, without
// locking.
type Ranges struct {
	metadata     Metadata
	ipv4Prefixes []*Prefix
	ipv6Prefixes []*Prefix
	tries        *versionedTrie

	regions             []string
	networkBorderGroups []string
	services            []string
}

// New builds a collection from the producer's normalized records. Records
// sharing a network block are merged into one prefix whose services are
// the union of the records' service tags, preserving first-seen order. The
// first invalid record fails the whole load with an *InvalidRecordError;
// a partial collection is never returned.
func New(metadata Metadata, records []RawRecord) (*Ranges, error) {
	m := newMerger()
	for _, record := range records {
		if err := m.add(record); err != nil {
			return nil, err
		}
	}
	ipv4, ipv6 := m.prefixes()
	r, err := build(metadata, ipv4, ipv6)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"records":       len(records),
		"ipv4_prefixes": len(r.ipv4Prefixes),
		"ipv6_prefixes": len(r.ipv6Prefixes),
	}).Debug("built AWS IP ranges collection")
	return r, nil
}

// build assembles a collection from already-merged prefixes. The prefixes
// must be deduplicated by network block; the merger and Filter both
// guarantee that.
func build(metadata Metadata, ipv4, ipv6 []*Prefix) (*Ranges, error) {
	r := &Ranges{
		metadata:     metadata,
		ipv4Prefixes: sortPrefixes(ipv4),
		ipv6Prefixes: sortPrefixes(ipv6),
		tries:        newVersionedTrie(),
	}
	for _, prefix := range r.ipv4Prefixes {
		if err := r.tries.insert(prefix); err != nil {
			return nil, err
		}
	}
	for _, prefix := range r.ipv6Prefixes {
		if err := r.tries.insert(prefix); err != nil {
			return nil, err
		}
	}
	r.collectAttributes()
	return r, nil
}

// Metadata returns the source document's metadata.
func (r *Ranges) Metadata() Metadata {
	return r.metadata
}

// Contains reports whether the queried address or network is contained in
// the collection. A network is contained only when a stored block at most
// as specific as the network covers it entirely.
func (r *Ranges) Contains(q Query) bool {
	return r.tries.contains(q)
}

// Get returns the longest-match prefix containing the queried address or
// network, or nil when nothing matches.
func (r *Ranges) Get(q Query) *Prefix {
	return r.tries.longestMatch(q)
}

// Lookup is Get with a hard failure: it returns an error wrapping
// ErrNotFound when nothing matches, for callers that treat a miss as
// exceptional.
func (r *Ranges) Lookup(q Query) (*Prefix, error) {
	if prefix := r.tries.longestMatch(q); prefix != nil {
		return prefix, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, q)
}

// Supernets returns every prefix containing the queried address or
// network, least specific first. The result is empty when nothing matches.
func (r *Ranges) Supernets(q Query) []*Prefix {
	return r.tries.containingPrefixes(q)
}

// Filter returns a new collection holding the prefixes selected by f. The
// result shares the receiver's prefix values and document metadata and
// builds its own tries, so it is independently queryable. An empty result
// is a valid, queryable collection.
func (r *Ranges) Filter(f Filter) *Ranges {
	var ipv4, ipv6 []*Prefix
	for _, prefix := range r.ipv4Prefixes {
		if f.matches(prefix) {
			ipv4 = append(ipv4, prefix)
		}
	}
	for _, prefix := range r.ipv6Prefixes {
		if f.matches(prefix) {
			ipv6 = append(ipv6, prefix)
		}
	}
	filtered, err := build(r.metadata, ipv4, ipv6)
	if err != nil {
		// The receiver already deduplicated every block, and a subset of a
		// deduplicated set cannot collide.
		panic(err)
	}
	return filtered
}

// IPv4Prefixes returns the IPv4 prefixes in ascending network order.
func (r *Ranges) IPv4Prefixes() []*Prefix {
	return copyPrefixes(r.ipv4Prefixes)
}

// IPv6Prefixes returns the IPv6 prefixes in ascending network order.
func (r *Ranges) IPv6Prefixes() []*Prefix {
	return copyPrefixes(r.ipv6Prefixes)
}

// All returns every prefix in the collection, IPv4 before IPv6, each
// version in ascending network order.
func (r *Ranges) All() []*Prefix {
	all := make([]*Prefix, 0, r.Len())
	all = append(all, r.ipv4Prefixes...)
	all = append(all, r.ipv6Prefixes...)
	return all
}

// Len returns the number of prefixes held, both versions combined.
func (r *Ranges) Len() int {
	return r.tries.len()
}

// Regions returns the distinct regions in the collection, sorted. Useful
// for discovering valid Filter inputs.
func (r *Ranges) Regions() []string {
	return copyStrings(r.regions)
}

// NetworkBorderGroups returns the distinct network border groups in the
// collection, sorted.
func (r *Ranges) NetworkBorderGroups() []string {
	return copyStrings(r.networkBorderGroups)
}

// Services returns the distinct service tags in the collection, sorted.
// "AMAZON" is an identifier covering all published ranges rather than a
// service; filtering on it selects every prefix that carries the tag.
func (r *Ranges) Services() []string {
	return copyStrings(r.services)
}

func (r *Ranges) String() string {
	return fmt.Sprintf("AWS IP ranges (sync token %s): %d IPv4 prefixes, %d IPv6 prefixes",
		r.metadata.SyncToken, len(r.ipv4Prefixes), len(r.ipv6Prefixes))
}

func (r *Ranges) collectAttributes() {
	regions := make(map[string]struct{})
	groups := make(map[string]struct{})
	services := make(map[string]struct{})
	for _, prefix := range r.All() {
		regions[prefix.region] = struct{}{}
		groups[prefix.networkBorderGroup] = struct{}{}
		for _, service := range prefix.services {
			services[service] = struct{}{}
		}
	}
	r.regions = sortedKeys(regions)
	r.networkBorderGroups = sortedKeys(groups)
	r.services = sortedKeys(services)
}

func sortPrefixes(prefixes []*Prefix) []*Prefix {
	sorted := copyPrefixes(prefixes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	return sorted
}

func copyPrefixes(prefixes []*Prefix) []*Prefix {
	copied := make([]*Prefix, len(prefixes))
	copy(copied, prefixes)
	return copied
}

func copyStrings(values []string) []string {
	copied := make([]string, len(values))
	copy(copied, values)
	return copied
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

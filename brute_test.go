package awsipranges

import (
	"math/rand"
	"net"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	rnet "github.com/yl2chen/cidranger/net"
)

// bruteIndex is a linear reference implementation of the collection's
// lookup operations. Every query scans all prefixes, so its correctness
// is easy to see, and it serves as ground truth when running randomized
// tests against the trie-backed collection.
type bruteIndex struct {
	prefixes []*Prefix
}

func newBruteIndex(prefixes []*Prefix) *bruteIndex {
	return &bruteIndex{prefixes: prefixes}
}

func (b *bruteIndex) matches(p *Prefix, q Query) bool {
	return p.PrefixLen() <= q.maxLen && p.network.Contains(q.number)
}

func (b *bruteIndex) contains(q Query) bool {
	for _, p := range b.prefixes {
		if b.matches(p, q) {
			return true
		}
	}
	return false
}

func (b *bruteIndex) supernets(q Query) []*Prefix {
	var results []*Prefix
	for _, p := range b.prefixes {
		if b.matches(p, q) {
			results = append(results, p)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].PrefixLen() < results[j].PrefixLen()
	})
	return results
}

func (b *bruteIndex) longestMatch(q Query) *Prefix {
	chain := b.supernets(q)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

func assertQueryAgreement(t *testing.T, ranges *Ranges, brute *bruteIndex, q Query) {
	t.Helper()
	assert.Equal(t, brute.contains(q), ranges.Contains(q), "contains disagrees for %s", q)
	assert.Equal(t, prefixStrings(brute.supernets(q)), prefixStrings(ranges.Supernets(q)),
		"supernets disagree for %s", q)

	expected := brute.longestMatch(q)
	actual := ranges.Get(q)
	if expected == nil {
		assert.Nil(t, actual, "longest match disagrees for %s", q)
	} else {
		assert.Equal(t, expected.String(), actual.String(), "longest match disagrees for %s", q)
	}
}

func TestAgainstBruteForceRandomIPv4(t *testing.T) {
	ranges := loadTestRanges(t)
	brute := newBruteIndex(ranges.All())

	rng := rand.New(rand.NewSource(0))
	for i := 0; i < 10000; i++ {
		n := rng.Uint32()
		ip := net.IPv4(byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		q, err := QueryIP(ip)
		assert.NoError(t, err)
		assertQueryAgreement(t, ranges, brute, q)
	}
}

func TestAgainstBruteForceCuratedAddresses(t *testing.T) {
	ranges := loadTestRanges(t)
	brute := newBruteIndex(ranges.All())

	// Boundary addresses of every stored block: the base address, the
	// address just inside the far end, and the addresses just outside
	// either edge.
	for _, p := range ranges.All() {
		ipNet := p.Network()
		base := p.network.Number
		ones, bits := ipNet.Mask.Size()

		candidates := []net.IP{base.ToIP(), base.Previous().ToIP()}
		if ones < bits {
			last := lastAddressIn(t, ipNet)
			candidates = append(candidates, last.ToIP(), last.Next().ToIP())
		}
		for _, ip := range candidates {
			q, err := QueryIP(ip)
			assert.NoError(t, err)
			assertQueryAgreement(t, ranges, brute, q)
		}
	}
}

func TestAgainstBruteForceNetworkQueries(t *testing.T) {
	ranges := loadTestRanges(t)
	brute := newBruteIndex(ranges.All())

	for _, p := range ranges.All() {
		ipNet := p.Network()
		ones, bits := ipNet.Mask.Size()

		// The stored block itself, a one-bit-longer subnet of it, and a
		// one-bit-shorter covering block.
		queries := []Query{QueryPrefix(p)}
		if ones < bits {
			sub, err := QueryNetwork(net.IPNet{IP: ipNet.IP, Mask: net.CIDRMask(ones+1, bits)})
			assert.NoError(t, err)
			queries = append(queries, sub)
		}
		if ones > 0 {
			super, err := QueryNetwork(net.IPNet{IP: ipNet.IP, Mask: net.CIDRMask(ones-1, bits)})
			assert.NoError(t, err)
			queries = append(queries, super)
		}
		for _, q := range queries {
			assertQueryAgreement(t, ranges, brute, q)
		}
	}
}

// lastAddressIn returns the network number of the highest address inside
// the given block.
func lastAddressIn(t *testing.T, ipNet net.IPNet) rnet.NetworkNumber {
	t.Helper()
	last := make(net.IP, len(ipNet.IP))
	for i := range ipNet.IP {
		last[i] = ipNet.IP[i] | ^ipNet.Mask[i]
	}
	q, err := QueryIP(last)
	assert.NoError(t, err)
	return q.number
}

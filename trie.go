package awsipranges

import (
	"fmt"
	"net"
	"strings"

	rnet "github.com/yl2chen/cidranger/net"
)

// prefixTrie is a path-compressed binary trie over the bits of one IP
// version's address space. Each node's network is a prefix of its
// children's networks, so walking root to leaf visits the stored blocks
// containing an address from least to most specific, and the nesting
// relationship between published blocks is recovered by construction.
//
// Lookups take at most one bit-step per address bit (32 or 128),
// independent of how many prefixes are stored. A string of nodes with a
// single child is compressed into one node carrying the skipped bits.
//
// A trie holds a single IP version; versionedTrie pairs one of each.
type prefixTrie struct {
	parent   *prefixTrie
	children []*prefixTrie

	numBitsSkipped uint
	numBitsHandled uint

	network rnet.Network
	prefix  *Prefix

	size int // maintained in the root only
}

func newPrefixTrie(version rnet.IPVersion) *prefixTrie {
	_, rootNet, _ := net.ParseCIDR("0.0.0.0/0")
	if version == rnet.IPv6 {
		_, rootNet, _ = net.ParseCIDR("0::0/0")
	}
	return &prefixTrie{
		children:       make([]*prefixTrie, 2),
		numBitsSkipped: 0,
		numBitsHandled: 1,
		network:        rnet.NewNetwork(*rootNet),
	}
}

func newPathTrie(network rnet.Network, numBitsSkipped uint) *prefixTrie {
	return &prefixTrie{
		children:       make([]*prefixTrie, 2),
		numBitsSkipped: numBitsSkipped,
		numBitsHandled: 1,
		network:        network.Masked(int(numBitsSkipped)),
	}
}

func newLeafTrie(prefix *Prefix) *prefixTrie {
	ones, _ := prefix.network.IPNet.Mask.Size()
	leaf := newPathTrie(prefix.network, uint(ones))
	leaf.prefix = prefix
	return leaf
}

// insert attaches prefix at the node addressed by its network bits,
// creating connector nodes as needed. Inserting the same block twice is a
// programmer error: the merger emits exactly one record per distinct key.
func (t *prefixTrie) insert(prefix *Prefix) error {
	if err := t.insertNetwork(prefix.network, prefix); err != nil {
		return err
	}
	t.size++
	return nil
}

func (t *prefixTrie) insertNetwork(network rnet.Network, prefix *Prefix) error {
	if t.network.Equal(network) {
		if t.prefix != nil {
			return fmt.Errorf("duplicate prefix %s inserted into trie", network.IPNet.String())
		}
		t.prefix = prefix
		return nil
	}

	bit, err := t.targetBitFromNumber(network.Number)
	if err != nil {
		return err
	}
	existing := t.children[bit]
	if existing == nil {
		t.appendChild(bit, newLeafTrie(prefix))
		return nil
	}

	// If the inserted network diverges from the existing child before the
	// child's own branch position, splice a connector node in at the point
	// of divergence.
	lcb, err := network.LeastCommonBitPosition(existing.network)
	if err != nil {
		return err
	}
	divergingBitPos := int(lcb) - 1
	if divergingBitPos > existing.targetBitPosition() {
		connector := newPathTrie(network, t.totalBits()-lcb)
		if err := t.spliceChild(bit, connector, existing); err != nil {
			return err
		}
		existing = connector
	}
	return existing.insertNetwork(network, prefix)
}

func (t *prefixTrie) appendChild(bit uint32, child *prefixTrie) {
	t.children[bit] = child
	child.parent = t
}

func (t *prefixTrie) spliceChild(bit uint32, connector, child *prefixTrie) error {
	t.children[bit] = connector
	connector.parent = t

	connectorBit, err := connector.targetBitFromNumber(child.network.Number)
	if err != nil {
		return err
	}
	connector.children[connectorBit] = child
	child.parent = connector
	return nil
}

// contains reports whether any stored block of length at most maxLen
// covers number. It exits at the first match instead of walking the full
// chain.
func (t *prefixTrie) contains(number rnet.NetworkNumber, maxLen int) bool {
	if !t.network.Contains(number) {
		return false
	}
	if t.prefix != nil && t.prefix.PrefixLen() <= maxLen {
		return true
	}
	if int(t.numBitsSkipped) >= maxLen || t.targetBitPosition() < 0 {
		return false
	}
	bit, err := t.targetBitFromNumber(number)
	if err != nil {
		return false
	}
	if child := t.children[bit]; child != nil {
		return child.contains(number, maxLen)
	}
	return false
}

// containingPrefixes returns every stored block of length at most maxLen
// that covers number, least specific first. Visit order is root to leaf,
// which is exactly supernet-to-subnet order.
func (t *prefixTrie) containingPrefixes(number rnet.NetworkNumber, maxLen int) []*Prefix {
	var results []*Prefix
	if !t.network.Contains(number) {
		return results
	}
	if t.prefix != nil && t.prefix.PrefixLen() <= maxLen {
		results = append(results, t.prefix)
	}
	if int(t.numBitsSkipped) >= maxLen || t.targetBitPosition() < 0 {
		return results
	}
	bit, err := t.targetBitFromNumber(number)
	if err != nil {
		return results
	}
	if child := t.children[bit]; child != nil {
		results = append(results, child.containingPrefixes(number, maxLen)...)
	}
	return results
}

// longestMatch returns the most specific stored block of length at most
// maxLen covering number, or nil.
func (t *prefixTrie) longestMatch(number rnet.NetworkNumber, maxLen int) *Prefix {
	var match *Prefix
	for node := t; node != nil; {
		if !node.network.Contains(number) {
			break
		}
		if node.prefix != nil && node.prefix.PrefixLen() <= maxLen {
			match = node.prefix
		}
		if int(node.numBitsSkipped) >= maxLen || node.targetBitPosition() < 0 {
			break
		}
		bit, err := node.targetBitFromNumber(number)
		if err != nil {
			break
		}
		node = node.children[bit]
	}
	return match
}

func (t *prefixTrie) len() int {
	return t.size
}

// String returns a string representation of the trie, mainly for
// visualization and debugging.
func (t *prefixTrie) String() string {
	children := []string{}
	padding := strings.Repeat("| ", t.level()+1)
	for bit, child := range t.children {
		if child == nil {
			continue
		}
		children = append(children, fmt.Sprintf("\n%s%d--> %s", padding, bit, child.String()))
	}
	return fmt.Sprintf("%s (target_pos:%d:has_entry:%t)%s", t.network.IPNet.String(),
		t.targetBitPosition(), t.prefix != nil, strings.Join(children, ""))
}

// walkDepth returns stored prefixes in depth order, for tests.
func (t *prefixTrie) walkDepth() []*Prefix {
	var results []*Prefix
	if t.prefix != nil {
		results = append(results, t.prefix)
	}
	for _, child := range t.children {
		if child == nil {
			continue
		}
		results = append(results, child.walkDepth()...)
	}
	return results
}

func (t *prefixTrie) totalBits() uint {
	return rnet.BitsPerUint32 * uint(len(t.network.Number))
}

func (t *prefixTrie) targetBitPosition() int {
	return int(t.totalBits()-t.numBitsSkipped) - 1
}

func (t *prefixTrie) targetBitFromNumber(number rnet.NetworkNumber) (uint32, error) {
	return number.Bit(uint(t.targetBitPosition()))
}

func (t *prefixTrie) level() int {
	if t.parent == nil {
		return 0
	}
	return t.parent.level() + 1
}

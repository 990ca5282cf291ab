package awsipranges

import (
	rnet "github.com/yl2chen/cidranger/net"
)

// versionedTrie routes each query to the trie matching the query's IP
// version. A query against a version with no stored prefixes is an
// expected miss, not an error: both versions are optional in any given
// collection.
type versionedTrie struct {
	ipV4Trie *prefixTrie
	ipV6Trie *prefixTrie
}

func newVersionedTrie() *versionedTrie {
	return &versionedTrie{
		ipV4Trie: newPrefixTrie(rnet.IPv4),
		ipV6Trie: newPrefixTrie(rnet.IPv6),
	}
}

func (v *versionedTrie) insert(prefix *Prefix) error {
	if prefix.Version() == 6 {
		return v.ipV6Trie.insert(prefix)
	}
	return v.ipV4Trie.insert(prefix)
}

func (v *versionedTrie) contains(q Query) bool {
	return v.trieFor(q).contains(q.number, q.maxLen)
}

func (v *versionedTrie) longestMatch(q Query) *Prefix {
	return v.trieFor(q).longestMatch(q.number, q.maxLen)
}

func (v *versionedTrie) containingPrefixes(q Query) []*Prefix {
	return v.trieFor(q).containingPrefixes(q.number, q.maxLen)
}

func (v *versionedTrie) len() int {
	return v.ipV4Trie.len() + v.ipV6Trie.len()
}

func (v *versionedTrie) trieFor(q Query) *prefixTrie {
	if q.version == rnet.IPv6 {
		return v.ipV6Trie
	}
	return v.ipV4Trie
}

package awsipranges

import (
	"net"

	rnet "github.com/yl2chen/cidranger/net"
)

// Prefix is a single published CIDR block together with its AWS attributes.
// A Prefix is immutable once its collection is built, so it may be shared
// freely between a collection and any filtered views derived from it.
type Prefix struct {
	network            rnet.Network
	region             string
	networkBorderGroup string
	services           []string
}

func newPrefix(network rnet.Network, region, networkBorderGroup string, services ...string) *Prefix {
	return &Prefix{
		network:            network,
		region:             region,
		networkBorderGroup: networkBorderGroup,
		services:           services,
	}
}

// Network returns the CIDR block.
func (p *Prefix) Network() net.IPNet {
	return p.network.IPNet
}

// Version returns the IP version of the block (4 or 6).
func (p *Prefix) Version() int {
	return numberVersion(p.network.Number)
}

// PrefixLen returns the length of the network prefix, in bits.
func (p *Prefix) PrefixLen() int {
	ones, _ := p.network.IPNet.Mask.Size()
	return ones
}

// Region returns the AWS Region, or GLOBAL for edge locations.
func (p *Prefix) Region() string {
	return p.region
}

// NetworkBorderGroup returns the network border group: the set of
// Availability Zones or Local Zones from which AWS advertises the block.
func (p *Prefix) NetworkBorderGroup() string {
	return p.networkBorderGroup
}

// Services returns the services that use addresses in this block, in the
// order they were first seen in the source document. Note that "AMAZON" is
// not a service but an identifier covering all published ranges; some
// blocks are tagged with only that identifier.
func (p *Prefix) Services() []string {
	services := make([]string, len(p.services))
	copy(services, p.services)
	return services
}

// HasService reports whether the block is tagged with the given service.
func (p *Prefix) HasService(service string) bool {
	for _, s := range p.services {
		if s == service {
			return true
		}
	}
	return false
}

// Contains reports whether ip falls within this block.
func (p *Prefix) Contains(ip net.IP) bool {
	number := rnet.NewNetworkNumber(ip)
	if number == nil {
		return false
	}
	return p.network.Contains(number)
}

// ContainsNetwork reports whether network is a subnet of, or equal to,
// this block. Partial overlap is not containment.
func (p *Prefix) ContainsNetwork(network net.IPNet) bool {
	return p.network.Covers(rnet.NewNetwork(network))
}

// Equal reports value equality on (version, network address, prefix length).
func (p *Prefix) Equal(other *Prefix) bool {
	if other == nil {
		return false
	}
	return p.network.Equal(other.network)
}

// String returns the block in CIDR notation.
func (p *Prefix) String() string {
	return p.network.IPNet.String()
}

// less orders prefixes by version, network address, prefix length, region,
// network border group, and finally services.
func (p *Prefix) less(other *Prefix) bool {
	if v1, v2 := p.Version(), other.Version(); v1 != v2 {
		return v1 < v2
	}
	if c := compareNumbers(p.network.Number, other.network.Number); c != 0 {
		return c < 0
	}
	if l1, l2 := p.PrefixLen(), other.PrefixLen(); l1 != l2 {
		return l1 < l2
	}
	if p.region != other.region {
		return p.region < other.region
	}
	if p.networkBorderGroup != other.networkBorderGroup {
		return p.networkBorderGroup < other.networkBorderGroup
	}
	return lessStrings(p.services, other.services)
}

// numberVersion maps a network number's width to its IP version.
func numberVersion(number rnet.NetworkNumber) int {
	if number.ToV4() != nil {
		return 4
	}
	return 6
}

func compareNumbers(a, b rnet.NetworkNumber) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func lessStrings(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

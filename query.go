package awsipranges

import (
	"fmt"
	"net"
	"strings"

	rnet "github.com/yl2chen/cidranger/net"
)

// Query is a normalized lookup candidate: an IP address or CIDR network
// reduced to a version, a network number, and the maximum prefix length a
// stored block may have and still contain the candidate. Addresses match
// blocks of any length; a network only matches blocks at most as specific
// as itself, since a partial overlap is not containment.
//
// Queries are validated at construction, so collection lookups themselves
// never fail on input.
type Query struct {
	version rnet.IPVersion
	number  rnet.NetworkNumber
	maxLen  int
	text    string
}

// QueryIP builds a Query from an IP address.
func QueryIP(ip net.IP) (Query, error) {
	number := rnet.NewNetworkNumber(ip)
	if number == nil {
		return Query{}, ErrInvalidIPInput
	}
	return Query{
		version: versionFor(number),
		number:  number,
		maxLen:  len(number) * rnet.BitsPerUint32,
		text:    ip.String(),
	}, nil
}

// QueryNetwork builds a Query from a CIDR network. Host bits below the
// mask are cleared, so an interface address like 10.0.0.5/24 queries the
// block 10.0.0.0/24.
func QueryNetwork(network net.IPNet) (Query, error) {
	if network.IP == nil || network.Mask == nil {
		return Query{}, ErrInvalidNetworkInput
	}
	masked := net.IPNet{IP: network.IP.Mask(network.Mask), Mask: network.Mask}
	number := rnet.NewNetworkNumber(masked.IP)
	if number == nil {
		return Query{}, ErrInvalidNetworkInput
	}
	ones, bits := masked.Mask.Size()
	if bits != len(number)*rnet.BitsPerUint32 {
		return Query{}, ErrInvalidNetworkInput
	}
	return Query{
		version: versionFor(number),
		number:  number,
		maxLen:  ones,
		text:    masked.String(),
	}, nil
}

// QueryPrefix builds a Query for the block held by an existing Prefix, for
// looking the block up in another collection.
func QueryPrefix(prefix *Prefix) Query {
	q, _ := QueryNetwork(prefix.network.IPNet)
	return q
}

// ParseQuery builds a Query from an IP address or CIDR network in text
// form.
func ParseQuery(s string) (Query, error) {
	if strings.Contains(s, "/") {
		_, ipNet, err := net.ParseCIDR(s)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %v", ErrInvalidNetworkInput, err)
		}
		return QueryNetwork(*ipNet)
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidIPInput, s)
	}
	return QueryIP(ip)
}

// Version returns the query's IP version (4 or 6).
func (q Query) Version() int {
	return numberVersion(q.number)
}

func (q Query) String() string {
	return q.text
}

func versionFor(number rnet.NetworkNumber) rnet.IPVersion {
	if number.ToV4() != nil {
		return rnet.IPv4
	}
	return rnet.IPv6
}

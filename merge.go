package awsipranges

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	rnet "github.com/yl2chen/cidranger/net"
)

// merger deduplicates raw records into one Prefix per distinct network
// block, unioning service tags. The canonical key is the parsed, masked
// CIDR string, so equal blocks written differently still collapse.
type merger struct {
	byKey map[string]*Prefix
	order []*Prefix
}

func newMerger() *merger {
	return &merger{byKey: make(map[string]*Prefix)}
}

func (m *merger) add(record RawRecord) error {
	if record.Version != 4 && record.Version != 6 {
		return &InvalidRecordError{
			Record: record,
			Reason: fmt.Sprintf("unknown IP version %d", record.Version),
		}
	}

	_, ipNet, err := net.ParseCIDR(record.IPNetwork)
	if err != nil {
		return &InvalidRecordError{Record: record, Reason: "unparseable network", Err: err}
	}
	network := rnet.NewNetwork(*ipNet)
	if version := numberVersion(network.Number); version != record.Version {
		return &InvalidRecordError{
			Record: record,
			Reason: fmt.Sprintf("network is IPv%d but the record declares IPv%d", version, record.Version),
		}
	}

	key := ipNet.String()
	existing, found := m.byKey[key]
	if !found {
		prefix := newPrefix(network, record.Region, record.NetworkBorderGroup, record.Service)
		m.byKey[key] = prefix
		m.order = append(m.order, prefix)
		return nil
	}

	// Duplicate keys are expected to agree on region and border group;
	// first seen wins when a feed diverges.
	if existing.region != record.Region || existing.networkBorderGroup != record.NetworkBorderGroup {
		log.WithFields(logrus.Fields{
			"prefix":               key,
			"region":               record.Region,
			"network_border_group": record.NetworkBorderGroup,
		}).Warn("duplicate prefix disagrees on region or network border group, keeping first-seen values")
	}
	if !existing.HasService(record.Service) {
		existing.services = append(existing.services, record.Service)
	}
	return nil
}

// prefixes returns the merged records split by version, in first-seen
// order. Collections re-sort by network address during construction.
func (m *merger) prefixes() (ipv4, ipv6 []*Prefix) {
	for _, prefix := range m.order {
		if prefix.Version() == 6 {
			ipv6 = append(ipv6, prefix)
		} else {
			ipv4 = append(ipv4, prefix)
		}
	}
	return ipv4, ipv6
}

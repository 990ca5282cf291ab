/*
Package awsipranges indexes the published AWS IP address ranges and answers
containment, longest-prefix-match and supernet queries against them.

To build a collection from a producer's normalized records:

	ranges, err := awsipranges.New(meta, records)

To test whether an IP address or network is contained in the ranges:

	q, _ := awsipranges.ParseQuery("52.95.110.1")
	contained := ranges.Contains(q)

To get the most specific prefix containing an address, and its supernets:

	// longest match, nil when uncontained
	prefix := ranges.Get(q)

	// least to most specific
	chain := ranges.Supernets(q)

To narrow the collection to a region, network border group or service:

	subset := ranges.Filter(awsipranges.Filter{Services: []string{"S3"}})
*/
package awsipranges

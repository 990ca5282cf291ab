package awsipranges

// Filter selects prefixes by attribute values. A zero-length field matches
// everything; within a field the values are ORed together, and a prefix is
// selected only when every provided field matches. Services match by set
// intersection, so a prefix tagged EC2 and AMAZON matches a filter for
// either. Values that occur nowhere in the collection simply select
// nothing.
type Filter struct {
	Regions             []string
	NetworkBorderGroups []string
	Services            []string
	Versions            []int
}

func (f Filter) matches(prefix *Prefix) bool {
	if !matchString(f.Regions, prefix.region) {
		return false
	}
	if !matchString(f.NetworkBorderGroups, prefix.networkBorderGroup) {
		return false
	}
	if !matchInt(f.Versions, prefix.Version()) {
		return false
	}
	if len(f.Services) > 0 && !intersect(f.Services, prefix.services) {
		return false
	}
	return true
}

func matchString(values []string, value string) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func matchInt(values []int, value int) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func intersect(a, b []string) bool {
	for _, v := range a {
		for _, w := range b {
			if v == w {
				return true
			}
		}
	}
	return false
}

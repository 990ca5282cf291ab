package awsipranges

import "fmt"

// ErrNotFound is returned by Lookup when no stored prefix contains the
// queried address or network.
var ErrNotFound = fmt.Errorf("no prefix contains the queried address or network")

// ErrInvalidIPInput is returned upon invalid IP address input.
var ErrInvalidIPInput = fmt.Errorf("invalid IP address input")

// ErrInvalidNetworkInput is returned upon invalid network input.
var ErrInvalidNetworkInput = fmt.Errorf("invalid network input")

// InvalidRecordError is returned by New when a raw record cannot be turned
// into a prefix. The whole load fails on the first invalid record; partial
// collections are never produced.
type InvalidRecordError struct {
	Record RawRecord
	Reason string
	Err    error
}

func (e *InvalidRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid record %q: %s: %v", e.Record.IPNetwork, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid record %q: %s", e.Record.IPNetwork, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error {
	return e.Err
}

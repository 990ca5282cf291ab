package awsipranges

import "time"

// RawRecord is one normalized entry from the published ip-ranges document.
// The producer that fetches and parses the document hands the library a
// finite, order-preserving sequence of these records; the library does not
// re-validate the network syntax beyond what parsing requires.
type RawRecord struct {
	IPNetwork          string
	Version            int
	Region             string
	NetworkBorderGroup string
	Service            string
}

// Metadata identifies the published document a collection was built from.
// Filtered collections retain the source document's metadata verbatim; they
// are views of the same publication, not new documents.
type Metadata struct {
	// SyncToken is the publication time, in Unix epoch time format.
	SyncToken string

	// CreateDate is the publication date and time, in UTC.
	CreateDate time.Time

	// MD5 is the hash of the source document, usable to verify the
	// integrity of the downloaded file.
	MD5 string
}

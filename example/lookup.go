/*
	Example of how to use github.com/aws-samples/awsipranges

	Builds a small collection from inline records, then runs containment,
	longest-match and filter queries against it.
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aws-samples/awsipranges"
)

func main() {
	meta := awsipranges.Metadata{
		SyncToken:  "1693960231",
		CreateDate: time.Date(2023, 9, 5, 23, 50, 31, 0, time.UTC),
	}

	// A producer would hand these over after fetching and parsing the
	// published document.
	records := []awsipranges.RawRecord{
		{IPNetwork: "52.95.0.0/16", Version: 4, Region: "us-east-1", NetworkBorderGroup: "us-east-1", Service: "AMAZON"},
		{IPNetwork: "52.95.110.0/24", Version: 4, Region: "us-east-1", NetworkBorderGroup: "us-east-1", Service: "EC2"},
		{IPNetwork: "52.95.110.0/24", Version: 4, Region: "us-east-1", NetworkBorderGroup: "us-east-1", Service: "AMAZON"},
		{IPNetwork: "2600:1f18::/32", Version: 6, Region: "us-east-1", NetworkBorderGroup: "us-east-1", Service: "EC2"},
	}

	ranges, err := awsipranges.New(meta, records)
	if err != nil {
		fmt.Println("awsipranges.New()", err.Error())
		os.Exit(1)
	}

	q, err := awsipranges.ParseQuery("52.95.110.7")
	if err != nil {
		fmt.Println("awsipranges.ParseQuery()", err.Error())
		os.Exit(1)
	}

	fmt.Println("Contains:", ranges.Contains(q))

	fmt.Printf("Prefixes containing %s:\n", q)
	for _, prefix := range ranges.Supernets(q) {
		fmt.Println("\t", prefix, prefix.Region(), prefix.Services())
	}

	ec2 := ranges.Filter(awsipranges.Filter{Services: []string{"EC2"}})
	fmt.Println("EC2 subset:", ec2)
}

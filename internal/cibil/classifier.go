package cibil

import "strconv"

// Bucket is the delinquency bucket a single DPD code classifies into
type Bucket int

// Buckets in increasing order of severity. BucketExcluded marks entries with
// no data; they are skipped entirely when tallying.
const (
	BucketOnTime Bucket = iota
	BucketDays1to30
	BucketDays31to60
	BucketDays61to90
	BucketDays90Plus
	BucketExcluded
)

// Classify maps a raw per-month DPD code to its bucket. "STD", "0" and "000"
// are on-time markers and must be checked before numeric parsing; "XXX" and
// any unparseable code are excluded. A parsed non-positive value means paid
// with zero days late.
func Classify(code string) Bucket {
	switch code {
	case "STD", "0", "000":
		return BucketOnTime
	case "XXX":
		return BucketExcluded
	}

	d, err := strconv.Atoi(code)
	if err != nil {
		return BucketExcluded
	}

	switch {
	case d <= 0:
		return BucketOnTime
	case d <= 30:
		return BucketDays1to30
	case d <= 60:
		return BucketDays31to60
	case d <= 90:
		return BucketDays61to90
	default:
		return BucketDays90Plus
	}
}

package dataset

// Bucket is one of the five mismatch-percentage ranges.
type Bucket int

const (
	BucketZero    Bucket = iota // p == 0
	BucketUpTo25                // 0 < p <= 25
	BucketUpTo50                // 25 < p <= 50
	BucketUpTo75                // 50 < p <= 75
	BucketAbove75               // p > 75
)

// Buckets lists every bucket in ascending order.
var Buckets = []Bucket{BucketZero, BucketUpTo25, BucketUpTo50, BucketUpTo75, BucketAbove75}

// Label is the chart label of the bucket.
func (b Bucket) Label() string {
	switch b {
	case BucketZero:
		return "0%"
	case BucketUpTo25:
		return "1-25%"
	case BucketUpTo50:
		return "26-50%"
	case BucketUpTo75:
		return "51-75%"
	case BucketAbove75:
		return "76-100%"
	}
	return ""
}

// Contains reports whether percentage p falls inside b.
// Negative percentages belong to no bucket.
func (b Bucket) Contains(p float64) bool {
	switch b {
	case BucketZero:
		return p == 0
	case BucketUpTo25:
		return p > 0 && p <= 25
	case BucketUpTo50:
		return p > 25 && p <= 50
	case BucketUpTo75:
		return p > 50 && p <= 75
	case BucketAbove75:
		return p > 75
	}
	return false
}

// BucketOf classifies p for distribution charts. Every value lands in
// exactly one bucket; negative values fall into BucketUpTo25.
func BucketOf(p float64) Bucket {
	switch {
	case p == 0:
		return BucketZero
	case p <= 25:
		return BucketUpTo25
	case p <= 50:
		return BucketUpTo50
	case p <= 75:
		return BucketUpTo75
	}
	return BucketAbove75
}

// Package bucket classifies numeric attribute values into one of four
// ordered colour buckets.
package bucket

// Count is the number of buckets. Palettes and bounds always have exactly
// this many entries.
const Count = 4

// Bounds are the lower bounds of the buckets, in ascending order.
type Bounds [Count]uint64

// Colours is a palette index-aligned with Bounds.
type Colours [Count]string

// Ascending reports whether b is sorted in non-decreasing order.
func (b Bounds) Ascending() bool {
	for i := 1; i < Count; i++ {
		if b[i-1] > b[i] {
			return false
		}
	}
	return true
}

// Index returns the bucket of value: 0 below the first bound, 3 at or above
// the last, otherwise the bucket whose lower bound is the largest bound not
// exceeding value. A value equal to a bound lands in that bound's bucket.
//
// b must be ascending; Index does not check it.
func Index(b Bounds, value uint64) int {
	l, r := 0, Count-1
	for l <= r {
		m := (l + r) / 2
		if b[m] >= value {
			r = m - 1
		} else {
			l = m + 1
		}
	}
	if l > Count-1 {
		l = Count - 1
	}
	if l > 0 && b[l] > value {
		l--
	}
	return l
}

// Pick returns the colour of value's bucket.
func (c Colours) Pick(b Bounds, value uint64) string {
	return c[Index(b, value)]
}

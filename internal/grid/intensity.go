package grid

// Buckets is the number of discrete intensity levels.
const Buckets = 6

// Palette is the fixed ascending six-step color ramp, one color per
// bucket. Bucket 0 is a visible gray so a zero-paper day is still drawn
// (out-of-range cells are omitted from rendering entirely, they never go
// through this mapping).
var Palette = [Buckets]string{
	"#888888", // 0
	"#1c526b", // 1
	"#177b90", // 2
	"#12a5b5", // 3
	"#0dceda", // 4
	"#08f7fe", // 5
}

// Bucket maps a raw per-day count onto an intensity level by clamping to
// [0, 5]. Counts above 5 saturate at bucket 5; a 50-paper day looks the
// same as a 5-paper day. That is an intentional visual simplification.
func Bucket(count int) int {
	if count < 0 {
		return 0
	}
	if count > Buckets-1 {
		return Buckets - 1
	}
	return count
}

// Color returns the palette color for a raw count.
func Color(count int) string {
	return Palette[Bucket(count)]
}

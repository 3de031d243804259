package grid

import "testing"

func TestBucketClampAndSaturation(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{4, 4},
		{5, 5},
		{6, 5},
		{1000, 5},
	}
	for _, c := range cases {
		if got := Bucket(c.count); got != c.want {
			t.Errorf("Bucket(%d) = %d, want %d", c.count, got, c.want)
		}
	}
}

func TestColorUsesPalette(t *testing.T) {
	if got := Color(0); got != Palette[0] {
		t.Errorf("Color(0) = %s, want %s", got, Palette[0])
	}
	if got := Color(50); got != Palette[Buckets-1] {
		t.Errorf("Color(50) = %s, want %s", got, Palette[Buckets-1])
	}
}

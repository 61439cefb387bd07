package edge

import "testing"

func TestParseRange_NoHeaderMeansWhole(t *testing.T) {
	offset, length, whole, err := ParseRange("", 100)
	if err != nil || offset != 0 || length != 100 || !whole {
		t.Fatalf("got (%d,%d,%v,%v)", offset, length, whole, err)
	}
}

func TestParseRange_ExplicitRange(t *testing.T) {
	offset, length, whole, err := ParseRange("bytes=10-19", 100)
	if err != nil || offset != 10 || length != 10 || whole {
		t.Fatalf("got (%d,%d,%v,%v)", offset, length, whole, err)
	}
}

func TestParseRange_OpenEnded(t *testing.T) {
	offset, length, _, err := ParseRange("bytes=90-", 100)
	if err != nil || offset != 90 || length != 10 {
		t.Fatalf("got (%d,%d,%v)", offset, length, err)
	}
}

func TestParseRange_SuffixRange(t *testing.T) {
	offset, length, _, err := ParseRange("bytes=-10", 100)
	if err != nil || offset != 90 || length != 10 {
		t.Fatalf("got (%d,%d,%v)", offset, length, err)
	}
}

func TestParseRange_SuffixLargerThanSize(t *testing.T) {
	offset, length, _, err := ParseRange("bytes=-1000", 100)
	if err != nil || offset != 0 || length != 100 {
		t.Fatalf("got (%d,%d,%v)", offset, length, err)
	}
}

func TestParseRange_EndClampedToSize(t *testing.T) {
	offset, length, _, err := ParseRange("bytes=50-10000", 100)
	if err != nil || offset != 50 || length != 50 {
		t.Fatalf("got (%d,%d,%v)", offset, length, err)
	}
}

func TestParseRange_MultiRangeRejected(t *testing.T) {
	_, _, _, err := ParseRange("bytes=0-10,20-30", 100)
	if err != ErrMultiRange {
		t.Fatalf("err = %v, want ErrMultiRange", err)
	}
}

func TestParseRange_UnsatisfiableStartBeyondSize(t *testing.T) {
	_, _, _, err := ParseRange("bytes=200-300", 100)
	if err != ErrUnsatisfiableRange {
		t.Fatalf("err = %v, want ErrUnsatisfiableRange", err)
	}
}

func TestParseRange_Malformed(t *testing.T) {
	cases := []string{"bytes=", "abc", "bytes=a-b", "bytes=10"}
	for _, c := range cases {
		if _, _, _, err := ParseRange(c, 100); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestContentRangeHeader(t *testing.T) {
	got := ContentRangeHeader(10, 10, 100)
	want := "bytes 10-19/100"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

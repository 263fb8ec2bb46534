package metrics

import (
	"reflect"
	"testing"
	"time"
)

func TestSortKindBuckets(t *testing.T) {
	tests := []struct {
		name  string
		kinds map[ErrorKind]int
		want  []KindBucket
	}{
		{
			name:  "nil map",
			kinds: nil,
			want:  nil,
		},
		{
			name:  "empty map",
			kinds: map[ErrorKind]int{},
			want:  nil,
		},
		{
			name: "sorted by count desc",
			kinds: map[ErrorKind]int{
				KindTimeout:   1,
				KindRateLimit: 5,
				KindOther:     2,
			},
			want: []KindBucket{
				{Kind: KindRateLimit, Count: 5},
				{Kind: KindOther, Count: 2},
				{Kind: KindTimeout, Count: 1},
			},
		},
		{
			name: "ties sorted by kind",
			kinds: map[ErrorKind]int{
				KindTimeout:         3,
				KindAuthError:       3,
				KindConnectionError: 3,
			},
			want: []KindBucket{
				{Kind: KindAuthError, Count: 3},
				{Kind: KindConnectionError, Count: 3},
				{Kind: KindTimeout, Count: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortKindBuckets(tt.kinds)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortKindBuckets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSpread(t *testing.T) {
	if NewSpread(nil) != nil {
		t.Fatal("expected nil spread for empty batch")
	}

	s := NewSpread([]time.Duration{900 * time.Millisecond, 300 * time.Millisecond, 2100 * time.Millisecond})
	if s.First != 300*time.Millisecond {
		t.Errorf("First = %s, want 300ms", s.First)
	}
	if s.Last != 2100*time.Millisecond {
		t.Errorf("Last = %s, want 2.1s", s.Last)
	}
	if s.Window() != 1800*time.Millisecond {
		t.Errorf("Window = %s, want 1.8s", s.Window())
	}
	if s.WindowSeconds != 1.8 {
		t.Errorf("WindowSeconds = %v, want 1.8", s.WindowSeconds)
	}

	var nilSpread *Spread
	if nilSpread.Window() != 0 {
		t.Error("nil spread window should be 0")
	}
}

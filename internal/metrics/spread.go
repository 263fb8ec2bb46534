package metrics

import "time"

// Spread describes when the requests of a concurrent batch finished relative to dispatch.
type Spread struct {
	First         time.Duration `json:"-"`
	Last          time.Duration `json:"-"`
	FirstSeconds  float64       `json:"first_completion"`
	LastSeconds   float64       `json:"last_completion"`
	WindowSeconds float64       `json:"spread"`
}

// NewSpread summarizes completion offsets. It returns nil for an empty batch.
func NewSpread(offsets []time.Duration) *Spread {
	if len(offsets) == 0 {
		return nil
	}
	first, last := offsets[0], offsets[0]
	for _, o := range offsets[1:] {
		if o < first {
			first = o
		}
		if o > last {
			last = o
		}
	}
	return &Spread{
		First:         first,
		Last:          last,
		FirstSeconds:  RoundSeconds(first),
		LastSeconds:   RoundSeconds(last),
		WindowSeconds: RoundSeconds(last - first),
	}
}

// Window is the time between the first and last completion.
func (s *Spread) Window() time.Duration {
	if s == nil {
		return 0
	}
	return s.Last - s.First
}

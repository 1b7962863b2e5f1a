package shuffle

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a mutex guarded random generator that can be shared between goroutines
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource creates a source seeded from the clock
func NewSource() *Source {
	return NewSeededSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededSource wraps an explicit rand.Source, mostly for deterministic tests
func NewSeededSource(src rand.Source) *Source {
	return &Source{rng: rand.New(src)}
}

// Copy returns a shuffled copy of items and leaves items untouched.
// Fisher-Yates: walk from the last index down to 1 and swap i with a uniform j in [0, i].
func Copy[T any](s *Source, items []T) []T {
	out := append([]T(nil), items...)
	if len(out) < 2 {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i >= 1; i-- {
		j := s.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

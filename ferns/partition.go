package ferns

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// Fern is an ordered group of attribute positions whose values are counted jointly.
type Fern []int

// Partitioner splits attribute positions into ferns of a fixed target size
// after a seeded shuffle.
type Partitioner struct {
	groupSize int
	seed      int64
}

// NewPartitioner creates a Partitioner. groupSize < 1 is a configuration error.
func NewPartitioner(groupSize int, seed int64) (*Partitioner, error) {
	if groupSize < 1 {
		return nil, errors.NewValidationError("group_size", "must be at least 1", groupSize)
	}
	return &Partitioner{groupSize: groupSize, seed: seed}, nil
}

// GroupSize returns the target fern size.
func (p *Partitioner) GroupSize() int {
	return p.groupSize
}

// Seed returns the shuffle seed.
func (p *Partitioner) Seed() int64 {
	return p.seed
}

// Partition shuffles a copy of indices with a PCG generator seeded by the
// partitioner's seed and slices it into consecutive ferns of GroupSize
// positions. The last fern holds the remainder (1..GroupSize positions).
// The input slice is not modified.
func (p *Partitioner) Partition(indices []int) []Fern {
	if len(indices) == 0 {
		return nil
	}

	shuffled := make([]int, len(indices))
	copy(shuffled, indices)

	r := rand.New(rand.NewPCG(uint64(p.seed), uint64(p.seed)))
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	ferns := make([]Fern, 0, (len(shuffled)+p.groupSize-1)/p.groupSize)
	for start := 0; start < len(shuffled); start += p.groupSize {
		end := min(start+p.groupSize, len(shuffled))
		ferns = append(ferns, Fern(shuffled[start:end:end]))
	}
	return ferns
}

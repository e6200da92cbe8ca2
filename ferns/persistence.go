package ferns

import (
	"fmt"
	"io"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

const snapshotVersion = 1

// savedModel はgobで保存する学習済み状態
type savedModel struct {
	Version     int
	Config      Config
	Schema      dataset.Schema
	Ferns       [][]int
	ClassCounts []int
	Tables      [][]map[Key]int
}

// Save writes the trained state in gob format.
func (rf *RandomFerns) Save(w io.Writer) error {
	t, err := rf.snapshot("Save")
	if err != nil {
		return err
	}
	g := t.model
	s := savedModel{
		Version:     snapshotVersion,
		Config:      rf.cfg,
		Schema:      t.schema,
		Ferns:       make([][]int, g.NumFerns()),
		ClassCounts: g.classCounts,
		Tables:      g.tables,
	}
	for f := range s.Ferns {
		s.Ferns[f] = g.ferns[f]
	}
	return model.SaveModelToWriter(s, w)
}

// Load replaces the configuration and trained state with a saved one.
// The previous state is kept if the input is invalid.
func (rf *RandomFerns) Load(r io.Reader) error {
	var s savedModel
	if err := model.LoadModelFromReader(&s, r); err != nil {
		return err
	}
	t, err := s.restore()
	if err != nil {
		return err
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()
	rf.cfg = s.Config
	rf.trained = t
	rf.state.SetFitted(t.schema.NumAttributes(), t.model.Total(), t.model.NumClasses())
	return nil
}

func (s *savedModel) restore() (*trainedState, error) {
	const op = "RandomFerns.Load"
	if s.Version != snapshotVersion {
		return nil, errors.NewValueError(op, fmt.Sprintf("unsupported snapshot version %d", s.Version))
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	numClasses := s.Schema.NumClasses()
	if len(s.ClassCounts) != numClasses || len(s.Tables) != len(s.Ferns) {
		return nil, errors.NewValueError(op, "inconsistent snapshot dimensions")
	}

	ferns := make([]Fern, len(s.Ferns))
	seen := make(map[int]bool)
	for f, members := range s.Ferns {
		for _, pos := range members {
			if pos < 0 || pos >= s.Schema.NumAttributes() || seen[pos] {
				return nil, errors.NewValueError(op, fmt.Sprintf("invalid attribute position %d in fern %d", pos, f))
			}
			seen[pos] = true
		}
		ferns[f] = Fern(members)
	}
	if len(seen) != s.Schema.NumAttributes() {
		return nil, errors.NewValueError(op, "ferns do not cover every attribute")
	}

	g := newGroupModel(ferns, s.Schema.DomainSizes(), numClasses)
	for c, n := range s.ClassCounts {
		if n < 0 {
			return nil, errors.NewValueError(op, fmt.Sprintf("negative count %d for class %d", n, c))
		}
		g.classCounts[c] = n
		g.total += n
	}
	for f, perClass := range s.Tables {
		if len(perClass) != numClasses {
			return nil, errors.NewValueError(op, fmt.Sprintf("fern %d has %d class tables, want %d", f, len(perClass), numClasses))
		}
		for c, table := range perClass {
			sum := 0
			for k, n := range table {
				if n <= 0 {
					return nil, errors.NewValueError(op, fmt.Sprintf("fern %d class %d stores count %d", f, c, n))
				}
				g.tables[f][c][k] = n
				sum += n
			}
			if sum != s.ClassCounts[c] {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("fern %d class %d counts sum to %d, class count is %d", f, c, sum, s.ClassCounts[c]))
			}
		}
	}
	return &trainedState{schema: s.Schema, model: g}, nil
}

package ferns

import (
	"fmt"
	"strings"
)

// String renders the fern memberships and the per-class frequency tables.
func (rf *RandomFerns) String() string {
	t, err := rf.snapshot("String")
	if err != nil {
		return "Random Ferns: model not built yet"
	}
	return t.dump(rf.cfg)
}

func (t *trainedState) dump(cfg Config) string {
	var b strings.Builder
	g := t.model
	attrs := t.schema.Attributes

	b.WriteString("Random Ferns\n============\n\n")
	fmt.Fprintf(&b, "Class attribute: %s\n", t.schema.Class.Name)
	fmt.Fprintf(&b, "Group size: %d, seed: %d, instances: %d\n\n", cfg.GroupSize, cfg.Seed, g.Total())

	for f := 0; f < g.NumFerns(); f++ {
		names := make([]string, 0, len(g.ferns[f]))
		for _, pos := range g.ferns[f] {
			names = append(names, attrs[pos].Name)
		}
		fmt.Fprintf(&b, "Fern %d: %s (domain %g)\n", f, strings.Join(names, ", "), g.GroupDomainSize(f))
	}

	for c := 0; c < g.NumClasses(); c++ {
		fmt.Fprintf(&b, "\nClass %s\n", t.schema.Class.Value(c))
		for f := 0; f < g.NumFerns(); f++ {
			fmt.Fprintf(&b, "  Fern %d\n", f)
			for _, e := range g.Entries(f, c) {
				pairs := make([]string, len(e.Values))
				for i, v := range e.Values {
					a := attrs[g.ferns[f][i]]
					pairs[i] = a.Name + "=" + a.Value(v)
				}
				fmt.Fprintf(&b, "    %s: %d\n", strings.Join(pairs, ", "), e.Count)
			}
		}
		fmt.Fprintf(&b, "  Total class instances: %d\n", g.ClassCount(c))
	}
	return b.String()
}

package ferns

import (
	"encoding/binary"
	"slices"
	"sort"
)

// Key is the joint value-key of one fern: the uvarint of value+1 for every
// member position, in fern order. Missing values encode as 0.
// Keys are only compared within a single fern.
type Key string

func makeKey(fern Fern, values []int) Key {
	buf := make([]byte, 0, len(fern)*2)
	for _, pos := range fern {
		buf = binary.AppendUvarint(buf, uint64(values[pos]+1))
	}
	return Key(buf)
}

// Values decodes the key into value indices; Missing marks an absent value.
func (k Key) Values() []int {
	var out []int
	b := []byte(k)
	for len(b) > 0 {
		v, n := binary.Uvarint(b)
		if n <= 0 {
			break
		}
		out = append(out, int(v)-1)
		b = b[n:]
	}
	return out
}

// Entry is one stored frequency table cell.
type Entry struct {
	Key    Key
	Values []int
	Count  int
}

// GroupModel holds the per-(fern, class) frequency tables, the class counts
// and the group domain sizes captured when training starts.
type GroupModel struct {
	ferns       []Fern
	groupDomain []float64
	tables      [][]map[Key]int // [fern][class]
	classCounts []int
	total       int
}

// newGroupModel creates an empty model. domainSizes holds one entry per
// attribute position; the group domain size of a fern is the product of its
// members' domain sizes.
func newGroupModel(ferns []Fern, domainSizes []int, numClasses int) *GroupModel {
	g := &GroupModel{
		ferns:       ferns,
		groupDomain: make([]float64, len(ferns)),
		tables:      make([][]map[Key]int, len(ferns)),
		classCounts: make([]int, numClasses),
	}
	for f, fern := range ferns {
		size := 1.0
		for _, pos := range fern {
			size *= float64(domainSizes[pos])
		}
		g.groupDomain[f] = size

		g.tables[f] = make([]map[Key]int, numClasses)
		for c := range g.tables[f] {
			g.tables[f][c] = make(map[Key]int)
		}
	}
	return g
}

// NumFerns returns the number of ferns.
func (g *GroupModel) NumFerns() int {
	return len(g.ferns)
}

// NumClasses returns the number of class values.
func (g *GroupModel) NumClasses() int {
	return len(g.classCounts)
}

// Fern returns the member positions of fern f.
func (g *GroupModel) Fern(f int) Fern {
	return slices.Clone(g.ferns[f])
}

// Key builds the joint value-key of values at fern f.
func (g *GroupModel) Key(f int, values []int) Key {
	return makeKey(g.ferns[f], values)
}

// observe increments the count of the key formed from values at fern f in
// the table of class.
func (g *GroupModel) observe(f int, values []int, class int) {
	g.tables[f][class][makeKey(g.ferns[f], values)]++
}

// observeInstance counts one training instance: its class count and every fern.
func (g *GroupModel) observeInstance(values []int, class int) {
	g.classCounts[class]++
	g.total++
	for f := range g.ferns {
		g.observe(f, values, class)
	}
}

// Count returns the stored count of key at fern f for class, 0 if never observed.
func (g *GroupModel) Count(f, class int, key Key) int {
	return g.tables[f][class][key]
}

// ClassCount returns the number of training instances labeled class.
func (g *GroupModel) ClassCount(class int) int {
	return g.classCounts[class]
}

// Total returns the number of training instances.
func (g *GroupModel) Total() int {
	return g.total
}

// GroupDomainSize returns the number of theoretically possible keys of fern f.
func (g *GroupModel) GroupDomainSize(f int) float64 {
	return g.groupDomain[f]
}

// Likelihood returns the Laplace estimate
// (count(key)+1) / (classCount(class)+groupDomainSize(f)).
func (g *GroupModel) Likelihood(f, class int, key Key) float64 {
	return float64(g.tables[f][class][key]+1) / (float64(g.classCounts[class]) + g.groupDomain[f])
}

// Prior returns the Laplace class prior (classCount+1) / (total+numClasses).
func (g *GroupModel) Prior(class int) float64 {
	return float64(g.classCounts[class]+1) / float64(g.total+len(g.classCounts))
}

// TableEntries returns the number of stored cells over all tables.
func (g *GroupModel) TableEntries() int {
	n := 0
	for _, perClass := range g.tables {
		for _, table := range perClass {
			n += len(table)
		}
	}
	return n
}

// Entries returns the cells of the (f, class) table ordered by decoded values.
func (g *GroupModel) Entries(f, class int) []Entry {
	table := g.tables[f][class]
	entries := make([]Entry, 0, len(table))
	for k, n := range table {
		entries = append(entries, Entry{Key: k, Values: k.Values(), Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		return slices.Compare(entries[i].Values, entries[j].Values) < 0
	})
	return entries
}

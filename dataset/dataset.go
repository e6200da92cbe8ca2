// Package dataset defines the nominal data model consumed by the classifiers:
// attributes with enumerable domains, a schema with one class attribute,
// and instances that store one value index per attribute.
package dataset

import (
	"fmt"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// Kind is the type of an attribute.
type Kind int

const (
	// Nominal attributes take one of a fixed list of values.
	Nominal Kind = iota
	// Numeric attributes are carried in the schema only so that classifiers
	// can reject them; their values are not stored.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Nominal:
		return "nominal"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Missing marks an absent value in Instance.Values.
const Missing = -1

// MissingLabel is the rendering of a Missing value.
const MissingLabel = "?"

// Attribute is a named variable. For nominal attributes Values lists the legal
// values; a value is stored as its index into Values.
type Attribute struct {
	Name   string
	Kind   Kind
	Values []string
}

// NewNominal creates a nominal attribute with the given domain.
func NewNominal(name string, values ...string) Attribute {
	domain := make([]string, len(values))
	copy(domain, values)
	return Attribute{Name: name, Kind: Nominal, Values: domain}
}

// NewNumeric creates a numeric attribute.
func NewNumeric(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric}
}

// IsNominal reports whether the attribute is nominal.
func (a Attribute) IsNominal() bool {
	return a.Kind == Nominal
}

// DomainSize returns the number of legal values, 0 for numeric attributes.
func (a Attribute) DomainSize() int {
	if !a.IsNominal() {
		return 0
	}
	return len(a.Values)
}

// IndexOf returns the index of value, or Missing when it is not in the domain.
func (a Attribute) IndexOf(value string) int {
	for i, v := range a.Values {
		if v == value {
			return i
		}
	}
	return Missing
}

// Value renders a value index.
func (a Attribute) Value(index int) string {
	if index == Missing || index < 0 || index >= len(a.Values) {
		return MissingLabel
	}
	return a.Values[index]
}

// Schema is the ordered list of non-class attributes plus the class attribute.
type Schema struct {
	Attributes []Attribute
	Class      Attribute
}

// NumAttributes returns the number of non-class attributes.
func (s Schema) NumAttributes() int {
	return len(s.Attributes)
}

// NumClasses returns the number of class values.
func (s Schema) NumClasses() int {
	return s.Class.DomainSize()
}

// DomainSizes returns the domain size of every non-class attribute in schema order.
func (s Schema) DomainSizes() []int {
	sizes := make([]int, len(s.Attributes))
	for i, a := range s.Attributes {
		sizes[i] = a.DomainSize()
	}
	return sizes
}

// CheckValues verifies that values has one entry per attribute and that every
// entry is Missing or inside its attribute's domain. Violations are state errors.
func (s Schema) CheckValues(op string, values []int) error {
	if len(values) != len(s.Attributes) {
		return errors.NewArityMismatchError(op, len(s.Attributes), len(values))
	}
	for i, v := range values {
		if v == Missing {
			continue
		}
		if d := s.Attributes[i].DomainSize(); v < 0 || v >= d {
			return errors.NewDomainMismatchError(op, i, d, v)
		}
	}
	return nil
}

// CheckInstance verifies the attribute values and the class value of inst.
func (s Schema) CheckInstance(op string, inst Instance) error {
	if err := s.CheckValues(op, inst.Values); err != nil {
		return err
	}
	if d := s.NumClasses(); inst.Class < 0 || inst.Class >= d {
		return errors.NewDomainMismatchError(op, len(s.Attributes), d, inst.Class)
	}
	return nil
}

// Instance is one labeled row.
type Instance struct {
	Values []int
	Class  int
}

// HasMissing reports whether any attribute value is Missing.
func (inst Instance) HasMissing() bool {
	for _, v := range inst.Values {
		if v == Missing {
			return true
		}
	}
	return false
}

// Dataset is an ordered collection of instances sharing one schema.
type Dataset struct {
	Schema    Schema
	Instances []Instance
}

// New creates an empty dataset with the given schema.
func New(schema Schema) *Dataset {
	return &Dataset{Schema: schema}
}

// Len returns the number of instances.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Instances)
}

// Append validates inst against the schema and adds it.
func (d *Dataset) Append(inst Instance) error {
	if err := d.Schema.CheckInstance("Dataset.Append", inst); err != nil {
		return err
	}
	d.Instances = append(d.Instances, inst)
	return nil
}

// Validate checks every instance against the schema and reports the first bad row.
func (d *Dataset) Validate() error {
	for r, inst := range d.Instances {
		if err := d.Schema.CheckInstance("Dataset.Validate", inst); err != nil {
			return errors.Wrapf(err, "row %d", r)
		}
	}
	return nil
}

// AppendStrings adds a row given as rendered values. "?" maps to Missing;
// any other value outside a domain is an error.
func (d *Dataset) AppendStrings(values []string, class string) error {
	if len(values) != len(d.Schema.Attributes) {
		return errors.NewArityMismatchError("Dataset.AppendStrings", len(d.Schema.Attributes), len(values))
	}
	inst := Instance{Values: make([]int, len(values))}
	for i, v := range values {
		if v == MissingLabel {
			inst.Values[i] = Missing
			continue
		}
		idx := d.Schema.Attributes[i].IndexOf(v)
		if idx == Missing {
			return errors.NewValueError("Dataset.AppendStrings",
				fmt.Sprintf("value %q is not in the domain of attribute '%s'", v, d.Schema.Attributes[i].Name))
		}
		inst.Values[i] = idx
	}
	inst.Class = d.Schema.Class.IndexOf(class)
	if inst.Class == Missing {
		return errors.NewValueError("Dataset.AppendStrings",
			fmt.Sprintf("value %q is not in the domain of class attribute '%s'", class, d.Schema.Class.Name))
	}
	return d.Append(inst)
}

// Subset returns a dataset with the same schema holding the instances at indices, in order.
func (d *Dataset) Subset(indices []int) *Dataset {
	sub := &Dataset{Schema: d.Schema, Instances: make([]Instance, len(indices))}
	for i, idx := range indices {
		sub.Instances[i] = d.Instances[idx]
	}
	return sub
}

// Labels returns the class index of every instance.
func (d *Dataset) Labels() []int {
	labels := make([]int, len(d.Instances))
	for i, inst := range d.Instances {
		labels[i] = inst.Class
	}
	return labels
}

// ClassCounts returns the number of instances per class value.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, d.Schema.NumClasses())
	for _, inst := range d.Instances {
		if inst.Class >= 0 && inst.Class < len(counts) {
			counts[inst.Class]++
		}
	}
	return counts
}

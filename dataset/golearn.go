package dataset

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// GridOption configures FromGrid.
type GridOption func(*gridOptions)

type gridOptions struct {
	nominalizeNumeric bool
}

// WithNominalizeNumeric turns numeric grid attributes into nominal ones whose
// values are the distinct rendered numbers in first-seen order.
func WithNominalizeNumeric() GridOption {
	return func(o *gridOptions) {
		o.nominalizeNumeric = true
	}
}

// columnDecoder turns one golearn column into value indices.
type columnDecoder struct {
	attr   Attribute
	index  map[string]int
	decode func(raw []byte) int
}

func newColumnDecoder(a base.Attribute, opts gridOptions) *columnDecoder {
	if cat, ok := a.(*base.CategoricalAttribute); ok {
		c := &columnDecoder{attr: NewNominal(cat.GetName(), cat.GetValues()...)}
		c.decode = func(raw []byte) int {
			return int(base.UnpackBytesToU64(raw))
		}
		return c
	}

	if !opts.nominalizeNumeric {
		c := &columnDecoder{attr: NewNumeric(a.GetName())}
		c.decode = func([]byte) int { return Missing }
		return c
	}

	c := &columnDecoder{attr: NewNominal(a.GetName()), index: make(map[string]int)}
	c.decode = func(raw []byte) int {
		s := a.GetStringFromSysVal(raw)
		idx, ok := c.index[s]
		if !ok {
			idx = len(c.attr.Values)
			c.index[s] = idx
			c.attr.Values = append(c.attr.Values, s)
		}
		return idx
	}
	return c
}

// FromGrid converts a golearn FixedDataGrid with exactly one class attribute
// into a Dataset. Categorical attributes keep their value order. Numeric
// attributes stay numeric (and are later rejected by the classifiers) unless
// WithNominalizeNumeric is given.
func FromGrid(grid base.FixedDataGrid, opts ...GridOption) (*Dataset, error) {
	var o gridOptions
	for _, opt := range opts {
		opt(&o)
	}

	classAttrs := grid.AllClassAttributes()
	if len(classAttrs) != 1 {
		return nil, errors.NewCapabilityError("dataset.FromGrid", "class attribute",
			fmt.Sprintf("expected exactly one class attribute, got %d", len(classAttrs)))
	}
	featAttrs := base.AttributeDifference(grid.AllAttributes(), classAttrs)

	all := make([]base.Attribute, 0, len(featAttrs)+1)
	all = append(all, featAttrs...)
	all = append(all, classAttrs[0])
	specs := base.ResolveAttributes(grid, all)

	decoders := make([]*columnDecoder, len(all))
	for i, a := range all {
		decoders[i] = newColumnDecoder(a, o)
	}

	_, rows := grid.Size()
	instances := make([]Instance, rows)
	nFeat := len(featAttrs)

	err := grid.MapOverRows(specs, func(row [][]byte, r int) (bool, error) {
		inst := Instance{Values: make([]int, nFeat)}
		for i := 0; i < nFeat; i++ {
			inst.Values[i] = decoders[i].decode(row[i])
		}
		inst.Class = decoders[nFeat].decode(row[nFeat])
		instances[r] = inst
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "dataset.FromGrid: reading rows")
	}

	schema := Schema{Attributes: make([]Attribute, nFeat), Class: decoders[nFeat].attr}
	for i := 0; i < nFeat; i++ {
		schema.Attributes[i] = decoders[i].attr
	}
	return &Dataset{Schema: schema, Instances: instances}, nil
}

func toCategorical(a Attribute) *base.CategoricalAttribute {
	cat := base.NewCategoricalAttribute()
	cat.SetName(a.Name)
	for _, v := range a.Values {
		cat.GetSysValFromString(v)
	}
	return cat
}

// ToGrid converts a fully nominal dataset without missing values into golearn
// DenseInstances with the class attribute last.
func ToGrid(ds *Dataset) (*base.DenseInstances, error) {
	const op = "dataset.ToGrid"
	for _, a := range append(append([]Attribute{}, ds.Schema.Attributes...), ds.Schema.Class) {
		if !a.IsNominal() {
			return nil, errors.NewCapabilityError(op, "numeric attributes",
				fmt.Sprintf("attribute '%s' is %s", a.Name, a.Kind))
		}
	}

	grid := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(ds.Schema.Attributes))
	for i, a := range ds.Schema.Attributes {
		specs[i] = grid.AddAttribute(toCategorical(a))
	}
	classAttr := toCategorical(ds.Schema.Class)
	classSpec := grid.AddAttribute(classAttr)
	if err := grid.AddClassAttribute(classAttr); err != nil {
		return nil, errors.Wrap(err, op)
	}
	if err := grid.Extend(ds.Len()); err != nil {
		return nil, errors.Wrap(err, op)
	}

	for r, inst := range ds.Instances {
		if err := ds.Schema.CheckInstance(op, inst); err != nil {
			return nil, err
		}
		for i, v := range inst.Values {
			if v == Missing {
				return nil, errors.NewCapabilityError(op, "missing values",
					fmt.Sprintf("row %d attribute '%s' is missing", r, ds.Schema.Attributes[i].Name))
			}
			grid.Set(specs[i], r, base.PackU64ToBytes(uint64(v)))
		}
		grid.Set(classSpec, r, base.PackU64ToBytes(uint64(inst.Class)))
	}
	return grid, nil
}

// LoadCSV parses a CSV file with golearn (last column is the class) and
// converts it with FromGrid.
func LoadCSV(path string, hasHeaders bool, opts ...GridOption) (*Dataset, error) {
	grid, err := base.ParseCSVToInstances(path, hasHeaders)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.LoadCSV: %s", path)
	}
	return FromGrid(grid, opts...)
}

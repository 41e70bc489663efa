// Package summary derives aggregation tables and column statistics from
// a loaded DataSet. It is the analytical middle of the pipeline: rows go
// in, a grouped table with totals and a top group comes out.
package summary

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/inkline-labs/tabreport/internal/dataset"
)

// Op is an aggregation operator applied to a measure column.
type Op string

const (
	OpSum   Op = "sum"
	OpMean  Op = "mean"
	OpCount Op = "count"
	OpMin   Op = "min"
	OpMax   Op = "max"
)

// ParseOp validates an operator name from a manifest.
func ParseOp(s string) (Op, error) {
	switch Op(strings.ToLower(s)) {
	case OpSum, OpMean, OpCount, OpMin, OpMax:
		return Op(strings.ToLower(s)), nil
	case "":
		return OpSum, nil
	default:
		return "", fmt.Errorf("unknown aggregate operator: %q", s)
	}
}

// Measure is a column to aggregate. Column may name a source column or
// a derived column defined in the same Spec.
type Measure struct {
	Column   string
	Op       Op
	Label    string
	Currency bool
}

// DisplayLabel returns the label to show in report tables.
func (m Measure) DisplayLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return fmt.Sprintf("%s(%s)", m.Op, m.Column)
}

// Derived defines a per-row computed column as the product of two
// source columns, e.g. revenue = quantity * unit price.
type Derived struct {
	Name     string
	Multiply [2]string
}

// Spec describes one aggregation pass over a DataSet.
type Spec struct {
	GroupBy  string
	Measures []Measure
	Derived  []Derived
	TopN     int
}

// Group is one aggregated output row. Values are indexed in step with
// Spec.Measures.
type Group struct {
	Key    string
	Values []float64
	Count  int
}

// Table is the result of an aggregation pass.
type Table struct {
	GroupBy     string
	Measures    []Measure
	Groups      []Group
	Totals      []float64
	TopGroup    string
	SourceRows  int
	DroppedRows int
}

// accumulator collects per-group state for one measure.
type accumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

func (a *accumulator) add(v float64) {
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *accumulator) result(op Op) float64 {
	switch op {
	case OpSum:
		return a.sum
	case OpMean:
		if a.count == 0 {
			return 0
		}
		return a.sum / float64(a.count)
	case OpCount:
		return float64(a.count)
	case OpMin:
		return a.min
	case OpMax:
		return a.max
	}
	return 0
}

// Build aggregates the dataset according to spec. Rows where any
// measure input fails numeric coercion are dropped entirely, matching
// the loader contract that partially usable rows do not skew sums.
func Build(ds *dataset.DataSet, spec Spec) (*Table, error) {
	if err := validate(ds, spec); err != nil {
		return nil, err
	}

	groups := make(map[string][]*accumulator)
	counts := make(map[string]int)
	totals := make([]*accumulator, len(spec.Measures))
	for i := range totals {
		totals[i] = &accumulator{}
	}

	dropped := 0
	for _, row := range ds.Rows {
		values, ok := rowValues(row, spec)
		if !ok {
			dropped++
			continue
		}

		key := row[spec.GroupBy]
		accs, exists := groups[key]
		if !exists {
			accs = make([]*accumulator, len(spec.Measures))
			for i := range accs {
				accs[i] = &accumulator{}
			}
			groups[key] = accs
		}
		counts[key]++
		for i, v := range values {
			accs[i].add(v)
			totals[i].add(v)
		}
	}

	t := &Table{
		GroupBy:     spec.GroupBy,
		Measures:    spec.Measures,
		SourceRows:  len(ds.Rows),
		DroppedRows: dropped,
	}

	for key, accs := range groups {
		g := Group{Key: key, Values: make([]float64, len(accs)), Count: counts[key]}
		for i, acc := range accs {
			g.Values[i] = acc.result(spec.Measures[i].Op)
		}
		t.Groups = append(t.Groups, g)
	}

	// Descending by the first measure, then by key, so identical input
	// always renders identically.
	sort.Slice(t.Groups, func(i, j int) bool {
		if t.Groups[i].Values[0] != t.Groups[j].Values[0] {
			return t.Groups[i].Values[0] > t.Groups[j].Values[0]
		}
		return t.Groups[i].Key < t.Groups[j].Key
	})

	if len(t.Groups) > 0 {
		t.TopGroup = t.Groups[0].Key
	}
	if spec.TopN > 0 && len(t.Groups) > spec.TopN {
		t.Groups = t.Groups[:spec.TopN]
	}

	t.Totals = make([]float64, len(totals))
	for i, acc := range totals {
		t.Totals[i] = acc.result(spec.Measures[i].Op)
	}

	return t, nil
}

// rowValues resolves every measure input for one row. The second return
// value is false when any input fails coercion.
func rowValues(row dataset.Row, spec Spec) ([]float64, bool) {
	derived := make(map[string]float64, len(spec.Derived))
	for _, d := range spec.Derived {
		a, errA := parseCell(row[d.Multiply[0]])
		b, errB := parseCell(row[d.Multiply[1]])
		if errA != nil || errB != nil {
			return nil, false
		}
		derived[d.Name] = a * b
	}

	values := make([]float64, len(spec.Measures))
	for i, m := range spec.Measures {
		if m.Op == OpCount {
			values[i] = 0 // count ignores the cell value
			continue
		}
		if v, ok := derived[m.Column]; ok {
			values[i] = v
			continue
		}
		v, err := parseCell(row[m.Column])
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

func validate(ds *dataset.DataSet, spec Spec) error {
	if spec.GroupBy == "" {
		return fmt.Errorf("aggregation requires a group_by column")
	}
	if len(spec.Measures) == 0 {
		return fmt.Errorf("aggregation requires at least one measure")
	}
	if !hasColumn(ds, spec.GroupBy) {
		return fmt.Errorf("group_by column %q not found in %s", spec.GroupBy, ds.Source)
	}

	derivedNames := make(map[string]bool, len(spec.Derived))
	for _, d := range spec.Derived {
		for _, src := range d.Multiply {
			if !hasColumn(ds, src) {
				return fmt.Errorf("derived column %q references unknown column %q", d.Name, src)
			}
		}
		derivedNames[d.Name] = true
	}
	for _, m := range spec.Measures {
		if !derivedNames[m.Column] && !hasColumn(ds, m.Column) {
			return fmt.Errorf("measure column %q not found in %s", m.Column, ds.Source)
		}
	}
	return nil
}

func hasColumn(ds *dataset.DataSet, name string) bool {
	for _, c := range ds.Columns {
		if c == name {
			return true
		}
	}
	return false
}

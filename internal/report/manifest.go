package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inkline-labs/tabreport/internal/dataset"
	"github.com/inkline-labs/tabreport/internal/summary"
)

// Manifest is the user-supplied report definition (report.yaml). Every
// field is optional; anything missing is inferred from the dataset.
type Manifest struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	GroupBy     string            `yaml:"group_by"`
	Derived     []DerivedManifest `yaml:"derived"`
	Measures    []MeasureManifest `yaml:"measures"`
	TopN        int               `yaml:"top_n"`
	Chart       *ChartManifest    `yaml:"chart"`
}

// DerivedManifest defines a per-row computed column.
type DerivedManifest struct {
	Name     string   `yaml:"name"`
	Multiply []string `yaml:"multiply"`
}

// MeasureManifest defines one aggregated column.
type MeasureManifest struct {
	Column   string `yaml:"column"`
	Op       string `yaml:"op"`
	Label    string `yaml:"label"`
	Currency bool   `yaml:"currency"`
}

// ChartManifest enables the bar chart section.
type ChartManifest struct {
	Measure string `yaml:"measure"`
	Title   string `yaml:"title"`
}

// LoadManifest reads and parses a report manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse report manifest %s: %w", path, err)
	}
	return &m, nil
}

// Spec converts the manifest into an aggregation spec, filling gaps
// from the dataset: the first string column groups, numeric columns are
// summed.
func (m *Manifest) Spec(ds *dataset.DataSet) (summary.Spec, error) {
	spec := summary.Spec{GroupBy: m.GroupBy, TopN: m.TopN}

	if spec.GroupBy == "" {
		strCols := ds.StringColumns()
		if len(strCols) == 0 {
			return spec, fmt.Errorf("%s has no string column to group by; set group_by in the manifest", ds.Source)
		}
		spec.GroupBy = strCols[0]
	}

	for _, d := range m.Derived {
		if len(d.Multiply) != 2 {
			return spec, fmt.Errorf("derived column %q: multiply needs exactly two columns", d.Name)
		}
		spec.Derived = append(spec.Derived, summary.Derived{
			Name:     d.Name,
			Multiply: [2]string{d.Multiply[0], d.Multiply[1]},
		})
	}

	for _, mm := range m.Measures {
		op, err := summary.ParseOp(mm.Op)
		if err != nil {
			return spec, err
		}
		spec.Measures = append(spec.Measures, summary.Measure{
			Column:   mm.Column,
			Op:       op,
			Label:    mm.Label,
			Currency: mm.Currency,
		})
	}

	if len(spec.Measures) == 0 {
		for _, col := range ds.NumericColumns() {
			if col == spec.GroupBy {
				continue
			}
			spec.Measures = append(spec.Measures, summary.Measure{Column: col, Op: summary.OpSum})
		}
		if len(spec.Measures) == 0 {
			return spec, fmt.Errorf("%s has no numeric columns to aggregate; define measures in the manifest", ds.Source)
		}
	}

	return spec, nil
}

// TitleFor returns the manifest title or a default derived from the
// group column.
func (m *Manifest) TitleFor(groupBy string) string {
	if m.Title != "" {
		return m.Title
	}
	return fmt.Sprintf("Summary Report by %s", groupBy)
}

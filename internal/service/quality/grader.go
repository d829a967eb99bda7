// Package quality scores the completeness of imported site rows and flags
// categorical values outside their allowed vocabulary.
package quality

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// Criterion assigns a point weight to one logical field. Numbered column
// families (Commodity1..CommodityN, Source_1..Source_N) all count under
// the family's single criterion.
type Criterion struct {
	Field  string
	Points float64
}

// Weights groups the grading criteria into the four scored categories.
type Weights struct {
	Core      []Criterion
	Commodity []Criterion
	Temporal  []Criterion
	Source    []Criterion
}

// DefaultWeights returns the standard inventory grading scheme. Heavier
// weights mark the fields that matter most for tailings risk assessment.
func DefaultWeights() Weights {
	return Weights{
		Core: []Criterion{
			{"Mine_Type", 3},
			{"Mine_Status", 4},
			{"Owner_Operator", 5},
			{"Dev_Stage", 3},
			{"Site_Access", 2},
			{"Orebody_Type", 1},
			{"Orebody_Class", 1},
			{"Ore_Minerals", 2},
			{"Ore_Processed", 4},
			{"Forcing_Features", 1},
			{"Raise_Type", 2},
			{"History_Stability_Concerns", 2},
			{"Acid_Generating", 2},
			{"Current_Max_Height", 4},
			{"Tailings_Storage_Method", 4},
			{"Tailings_Volume", 5},
			{"Tailings_Capacity", 5},
			{"Tailings_Area", 5},
		},
		Commodity: []Criterion{
			{"Commodity", 4},
			{"Commodity_Grade", 5},
			{"Commodity_Contained", 3},
			{"Commodity_Produced", 2},
		},
		Temporal: []Criterion{
			{"Construction_Year", 3},
			{"Year_Opened", 3},
		},
		Source: []Criterion{
			{"Source", 2},
			{"Source_Link", 3},
			{"Source_ID", 5},
		},
	}
}

// Score reports per-category and overall completeness, each in [0, 1]. A
// category with no matching columns in the row scores zero.
type Score struct {
	Core      float64
	Commodity float64
	Temporal  float64
	Source    float64
	Overall   float64
}

// Grader scores rows against a weight table.
type Grader struct {
	weights Weights
	logger  *slog.Logger
}

func NewGrader(weights Weights, logger *slog.Logger) *Grader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Grader{weights: weights, logger: logger}
}

var (
	commodityFamily = regexp.MustCompile(`^Commodity\d+`)
	sourceFamily    = regexp.MustCompile(`^Source_\d+`)
	quantityColumn  = regexp.MustCompile(`^[A-Z][A-Za-z]*_(Grade|Contained|Produced)$`)
)

// canonField collapses numbered column families onto their criterion
// field: Commodity3 scores as Commodity, Source_2_Link as Source_Link,
// and symbol-keyed quantities like Au_Grade as Commodity_Grade.
func canonField(col string) string {
	col = commodityFamily.ReplaceAllString(col, "Commodity")
	col = sourceFamily.ReplaceAllString(col, "Source")
	if m := quantityColumn.FindStringSubmatch(col); m != nil {
		return "Commodity_" + m[1]
	}
	return col
}

// Grade scores one row. Every row column matching a criterion contributes
// its points to the possible total; populated columns also contribute to
// the earned total. Filling a field never lowers the score.
func (g *Grader) Grade(row domain.Row) Score {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var s Score
	var earned, possible float64
	score := func(criteria []Criterion) float64 {
		points := make(map[string]float64, len(criteria))
		for _, c := range criteria {
			points[c.Field] = c.Points
		}
		var catEarned, catPossible float64
		for _, col := range cols {
			pts, ok := points[canonField(col)]
			if !ok {
				continue
			}
			catPossible += pts
			if !row.IsNull(col) {
				catEarned += pts
			}
		}
		earned += catEarned
		possible += catPossible
		if catPossible == 0 {
			return 0
		}
		return catEarned / catPossible
	}

	s.Core = score(g.weights.Core)
	s.Commodity = score(g.weights.Commodity)
	s.Temporal = score(g.weights.Temporal)
	s.Source = score(g.weights.Source)
	if possible > 0 {
		s.Overall = earned / possible
	}
	return s
}

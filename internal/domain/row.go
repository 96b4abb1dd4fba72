package domain

// Scores holds the measurement columns of one row. Absent values are nil.
// The priority order of scoreColumns decides which value counts as the
// row's usable measurement.
type Scores struct {
	Percentile *float64
	Raw        *float64
	Scaled     *float64
	Standard   *float64
	TScore     *float64
	ZScore     *float64
	Composite  *float64
}

// Row is one tabular measurement from a data source: which domain label
// it was filed under, the instrument that produced it, who rated it, and
// the score columns.
type Row struct {
	Label      string
	Instrument string
	Subtest    string
	Rater      RaterTag
	Scores     Scores
}

func (s Scores) columns() []*float64 {
	return []*float64{s.Percentile, s.Raw, s.Scaled, s.Standard, s.TScore, s.ZScore, s.Composite}
}

// ScoreColumnNames lists the measurement columns in priority order.
var ScoreColumnNames = []string{"percentile", "raw", "scaled", "standard", "t_score", "z_score", "composite"}

// HasAny reports whether any measurement column is populated.
func (s Scores) HasAny() bool {
	for _, c := range s.columns() {
		if c != nil {
			return true
		}
	}
	return false
}

// Best returns the highest-priority populated measurement.
func (s Scores) Best() (float64, bool) {
	for _, c := range s.columns() {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

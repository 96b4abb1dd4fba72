// Package rater decides how many artifact variants a domain produces.
// Age class is detected from the instruments present in the data; age
// class restricts which respondent categories are eligible, and only
// categories with data actually expand.
package rater

import (
	"strings"

	"github.com/psychometrika/reportforge/internal/domain"
)

// pediatricPrefixes identify child-normed instruments. One matching row
// is enough to class the subject as a child.
var pediatricPrefixes = []string{
	"WISC", "WPPSI", "CBCL", "TRF", "YSR", "Conners", "BASC", "NEPSY", "ChAMP", "KTEA",
}

// Variant is one rater-specific artifact slice of a domain.
type Variant struct {
	Tag  domain.RaterTag
	Rows []domain.Row
}

// DetectAgeClass classes the subject from row data: any pediatric-normed
// instrument implies child, otherwise adult.
func DetectAgeClass(rows []domain.Row) domain.AgeClass {
	for _, row := range rows {
		for _, p := range pediatricPrefixes {
			if strings.HasPrefix(row.Instrument, p) {
				return domain.ClassChild
			}
		}
	}
	return domain.ClassAdult
}

// EligibleTags returns the respondent categories an age class allows,
// in fixed manifest order. Adult reports carry self and observer forms;
// child reports carry self, parent, and teacher forms.
func EligibleTags(class domain.AgeClass) []domain.RaterTag {
	if class == domain.ClassChild {
		return []domain.RaterTag{domain.RaterSelf, domain.RaterParent, domain.RaterTeacher}
	}
	return []domain.RaterTag{domain.RaterSelf, domain.RaterObserver}
}

// Expand fans a domain out into rater variants. Non-rater-capable specs
// always return a single default variant over all rows; rater-capable
// specs return one variant per eligible tag that has at least one row.
func Expand(spec domain.DomainSpec, rows []domain.Row) []Variant {
	if !spec.RaterCapable {
		return []Variant{{Tag: domain.RaterDefault, Rows: rows}}
	}

	byTag := make(map[domain.RaterTag][]domain.Row)
	for _, row := range rows {
		byTag[row.Rater] = append(byTag[row.Rater], row)
	}

	class := DetectAgeClass(rows)
	var out []Variant
	for _, tag := range EligibleTags(class) {
		if tagRows := byTag[tag]; len(tagRows) > 0 {
			out = append(out, Variant{Tag: tag, Rows: tagRows})
		}
	}
	return out
}

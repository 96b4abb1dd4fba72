package domain

import "fmt"

// DomainSpec describes one report section: how it is identified in source
// data, where its rows come from, and where it sorts in the document.
// Specs are defined once at startup and never mutated.
type DomainSpec struct {
	Key            string   // stable processing identifier, e.g. "memory"
	Labels         []string // canonical label plus legacy aliases
	SectionOrdinal int      // document section order, unique per key
	DataSource     string   // logical handle of the backing tabular store
	RaterCapable   bool     // may fan out into per-respondent artifacts
}

// HasLabel reports whether label exactly matches one of the spec's aliases.
func (s DomainSpec) HasLabel(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// ArtifactName returns the deterministic output file name for this spec
// and rater tag. The default tag produces "NN_key.tex", rater variants
// "NN_key_tag.tex". Stable across runs so regeneration overwrites.
func (s DomainSpec) ArtifactName(tag RaterTag) string {
	if tag == "" || tag == RaterDefault {
		return fmt.Sprintf("%02d_%s.tex", s.SectionOrdinal, s.Key)
	}
	return fmt.Sprintf("%02d_%s_%s.tex", s.SectionOrdinal, s.Key, tag)
}

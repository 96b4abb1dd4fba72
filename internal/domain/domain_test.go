package domain

import (
	"testing"
)

func f(v float64) *float64 { return &v }

func TestDomainSpec_ArtifactName(t *testing.T) {
	spec := DomainSpec{Key: "memory", SectionOrdinal: 4}

	tests := []struct {
		tag  RaterTag
		want string
	}{
		{RaterDefault, "04_memory.tex"},
		{"", "04_memory.tex"},
		{RaterParent, "04_memory_parent.tex"},
		{RaterSelf, "04_memory_self.tex"},
	}
	for _, tt := range tests {
		if got := spec.ArtifactName(tt.tag); got != tt.want {
			t.Errorf("ArtifactName(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestScores_Best_Priority(t *testing.T) {
	s := Scores{Raw: f(55), TScore: f(63)}
	got, ok := s.Best()
	if !ok || got != 55 {
		t.Errorf("Best() = %v, %v, want 55 (raw outranks t-score)", got, ok)
	}

	s = Scores{Percentile: f(84), Raw: f(55)}
	got, _ = s.Best()
	if got != 84 {
		t.Errorf("Best() = %v, want 84 (percentile first)", got)
	}

	if _, ok := (Scores{}).Best(); ok {
		t.Error("Best() on empty scores should report no value")
	}
}

func TestScores_HasAny(t *testing.T) {
	if (Scores{}).HasAny() {
		t.Error("empty scores should not have any measurement")
	}
	if !(Scores{Composite: f(101)}).HasAny() {
		t.Error("composite-only scores should count as measurable")
	}
}

func TestParseRaterTag(t *testing.T) {
	tests := []struct {
		in   string
		want RaterTag
	}{
		{"parent", RaterParent},
		{"caregiver", RaterParent},
		{"teacher", RaterTeacher},
		{"clinician", RaterObserver},
		{"self", RaterSelf},
		{"", RaterSelf},
		{"somethingelse", RaterSelf},
	}
	for _, tt := range tests {
		if got := ParseRaterTag(tt.in); got != tt.want {
			t.Errorf("ParseRaterTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRaterOrder(t *testing.T) {
	if !(RaterOrder(RaterSelf) < RaterOrder(RaterParent) &&
		RaterOrder(RaterParent) < RaterOrder(RaterTeacher) &&
		RaterOrder(RaterTeacher) < RaterOrder(RaterObserver)) {
		t.Error("rater order must be self < parent < teacher < observer")
	}
}

func TestRunReport_Counts(t *testing.T) {
	r := &RunReport{}
	r.Add(DomainResult{Key: "memory", Status: StatusGenerated})
	r.Add(DomainResult{Key: "attention", Status: StatusSkipped})
	r.Add(DomainResult{Key: "mood", Status: StatusFailed, Err: ErrNoUsableData})

	if r.Count(StatusGenerated) != 1 || r.Count(StatusSkipped) != 1 || r.Count(StatusFailed) != 1 {
		t.Errorf("unexpected counts in %s", r.Summary())
	}
	if len(r.Failures()) != 1 {
		t.Errorf("Failures() = %v, want one entry", r.Failures())
	}
}

func TestGenerationStatus_HasArtifact(t *testing.T) {
	for _, s := range []GenerationStatus{StatusGenerated, StatusCached, StatusProtected} {
		if !s.HasArtifact() {
			t.Errorf("%s should have an artifact", s)
		}
	}
	for _, s := range []GenerationStatus{StatusSkipped, StatusFailed} {
		if s.HasArtifact() {
			t.Errorf("%s should not have an artifact", s)
		}
	}
}

// Package registry holds the static domain table: every report section,
// the data labels that identify it in source exports, and its place in
// the assembled document. All label-to-domain dispatch goes through
// Resolve so alias lists exist in exactly one place.
package registry

import (
	"fmt"
	"sort"

	"github.com/psychometrika/reportforge/internal/domain"
)

// classAffinity disambiguates aliases shared between two specs. A spec
// without an entry is eligible for either age class.
var classAffinity = map[string]domain.AgeClass{
	"behavior": domain.ClassChild,
	"mood":     domain.ClassAdult,
}

// builtins is the canonical domain table. Ordinals decide document
// section order; several legacy export labels consolidate into one key.
var builtins = []domain.DomainSpec{
	{Key: "intelligence", SectionOrdinal: 1, DataSource: "scores.csv",
		Labels: []string{"Intellectual Functioning", "General Cognitive Ability", "FSIQ"}},
	{Key: "academic", SectionOrdinal: 2, DataSource: "scores.csv",
		Labels: []string{"Academic Achievement", "Achievement"}},
	{Key: "language", SectionOrdinal: 3, DataSource: "scores.csv",
		Labels: []string{"Language", "Verbal Functioning"}},
	{Key: "memory", SectionOrdinal: 4, DataSource: "scores.csv",
		Labels: []string{"Memory", "Learning and Memory"}},
	{Key: "attention", SectionOrdinal: 5, DataSource: "scores.csv",
		Labels: []string{"Attention", "Attention/Concentration"}},
	{Key: "executive", SectionOrdinal: 6, DataSource: "scores.csv",
		Labels: []string{"Executive Functioning", "Executive Function"}},
	{Key: "visuospatial", SectionOrdinal: 7, DataSource: "scores.csv",
		Labels: []string{"Visuospatial", "Visual-Spatial Skills"}},
	{Key: "motor", SectionOrdinal: 8, DataSource: "scores.csv",
		Labels: []string{"Motor", "Sensorimotor"}},
	{Key: "adaptive", SectionOrdinal: 9, DataSource: "ratings.csv", RaterCapable: true,
		Labels: []string{"Adaptive Functioning", "Adaptive Behavior"}},
	{Key: "behavior", SectionOrdinal: 10, DataSource: "ratings.csv", RaterCapable: true,
		Labels: []string{"Behavioral Functioning", "Behavior", "Behavior Rating"}},
	{Key: "mood", SectionOrdinal: 11, DataSource: "ratings.csv", RaterCapable: true,
		Labels: []string{"Emotional Functioning", "Mood", "Behavior Rating"}},
}

// Registry resolves source-data labels to domain specs.
type Registry struct {
	specs   []domain.DomainSpec
	byKey   map[string]int   // key -> index into specs
	byLabel map[string][]int // label -> indices, ordinal order
}

// New builds a registry from the built-in domain table.
func New() *Registry {
	r := &Registry{
		byKey:   make(map[string]int),
		byLabel: make(map[string][]int),
	}
	for _, s := range builtins {
		r.add(s)
	}
	return r
}

func (r *Registry) add(s domain.DomainSpec) {
	idx := len(r.specs)
	r.specs = append(r.specs, s)
	r.byKey[s.Key] = idx
	for _, l := range s.Labels {
		r.byLabel[l] = append(r.byLabel[l], idx)
	}
}

// Resolve maps a source-data label to its spec by exact match. When two
// specs share the label, the lower section ordinal wins; use
// ResolveForClass when the subject age class is known.
func (r *Registry) Resolve(label string) (domain.DomainSpec, error) {
	idxs, ok := r.byLabel[label]
	if !ok || len(idxs) == 0 {
		return domain.DomainSpec{}, fmt.Errorf("resolving %q: %w", label, domain.ErrNotFound)
	}
	best := idxs[0]
	for _, i := range idxs[1:] {
		if r.specs[i].SectionOrdinal < r.specs[best].SectionOrdinal {
			best = i
		}
	}
	return r.specs[best], nil
}

// ResolveForClass resolves a label preferring the spec whose age-class
// affinity matches; falls back to Resolve when no candidate matches.
func (r *Registry) ResolveForClass(label string, class domain.AgeClass) (domain.DomainSpec, error) {
	idxs, ok := r.byLabel[label]
	if !ok || len(idxs) == 0 {
		return domain.DomainSpec{}, fmt.Errorf("resolving %q: %w", label, domain.ErrNotFound)
	}
	for _, i := range idxs {
		if affinity, has := classAffinity[r.specs[i].Key]; !has || affinity == class {
			return r.specs[i], nil
		}
	}
	return r.Resolve(label)
}

// Get returns the spec for a processing key.
func (r *Registry) Get(key string) (domain.DomainSpec, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return domain.DomainSpec{}, false
	}
	return r.specs[idx], true
}

// ListSpecs returns all specs ordered by section ordinal ascending.
// This ordering is the single source of truth for document section order.
func (r *Registry) ListSpecs() []domain.DomainSpec {
	out := make([]domain.DomainSpec, len(r.specs))
	copy(out, r.specs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SectionOrdinal < out[j].SectionOrdinal
	})
	return out
}

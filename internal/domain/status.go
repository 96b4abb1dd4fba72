package domain

import "errors"

// GenerationStatus is the aggregate outcome for one domain in one pass.
type GenerationStatus string

const (
	StatusGenerated GenerationStatus = "generated" // artifact(s) newly produced
	StatusCached    GenerationStatus = "cached"    // refreshed, content already up to date
	StatusProtected GenerationStatus = "protected" // hand-edited artifact left alone
	StatusSkipped   GenerationStatus = "skipped"   // no usable data
	StatusFailed    GenerationStatus = "failed"    // processor error, prior artifacts untouched
)

// HasArtifact reports whether a domain with this status has a valid
// existing artifact that belongs in the manifest.
func (s GenerationStatus) HasArtifact() bool {
	switch s {
	case StatusGenerated, StatusCached, StatusProtected:
		return true
	}
	return false
}

// AgeClass is the detected subject age class, which restricts the set of
// respondent categories eligible for rater expansion.
type AgeClass string

const (
	ClassChild AgeClass = "child"
	ClassAdult AgeClass = "adult"
)

var (
	// ErrNotFound is returned by registry resolution for unknown labels.
	ErrNotFound = errors.New("domain not found")

	// ErrMissingDataSource marks an absent backing data source file.
	ErrMissingDataSource = errors.New("data source missing")

	// ErrNoUsableData marks a source with no measurable rows for a domain.
	ErrNoUsableData = errors.New("no usable data")

	// ErrConcurrentRun is returned when another run holds the workspace lock.
	ErrConcurrentRun = errors.New("another run is already in progress")
)

// Package manifest emits the ordered include list consumed by the
// typesetting stage. One \input directive per line, blank-line separated,
// in section-ordinal order, rater variants in fixed rater order. The
// write is all-or-nothing: a failed build leaves any previous manifest
// in place.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/psychometrika/reportforge/internal/domain"
)

// FileName is the manifest's location inside a workspace.
const FileName = "manifest.tex"

// Builder writes the workspace manifest.
type Builder struct {
	workspace string
}

// NewBuilder creates a manifest builder for a workspace.
func NewBuilder(workspace string) *Builder {
	return &Builder{workspace: workspace}
}

// Path returns the manifest location.
func (b *Builder) Path() string {
	return filepath.Join(b.workspace, FileName)
}

// variantTags is the fixed inclusion order for a domain's artifacts.
var variantTags = []domain.RaterTag{
	domain.RaterDefault, domain.RaterSelf, domain.RaterParent, domain.RaterTeacher, domain.RaterObserver,
}

// Entries returns the artifact file names that belong in the manifest,
// in final order: every domain whose latest status has a valid artifact,
// with all rater variants present on disk.
func (b *Builder) Entries(specs []domain.DomainSpec, report *domain.RunReport) [][]string {
	statusByKey := make(map[string]domain.GenerationStatus, len(report.Results))
	for _, res := range report.Results {
		statusByKey[res.Key] = res.Status
	}

	var groups [][]string
	for _, spec := range specs {
		if !statusByKey[spec.Key].HasArtifact() {
			continue
		}
		var names []string
		for _, tag := range variantTags {
			name := spec.ArtifactName(tag)
			if _, err := os.Stat(filepath.Join(b.workspace, name)); err == nil {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			groups = append(groups, names)
		}
	}
	return groups
}

// Build writes the manifest atomically. specs must be in section-ordinal
// order (registry.ListSpecs). An empty manifest is valid.
func (b *Builder) Build(specs []domain.DomainSpec, report *domain.RunReport) error {
	var sb strings.Builder
	for i, group := range b.Entries(specs, report) {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, name := range group {
			fmt.Fprintf(&sb, "\\input{%s}\n", name)
		}
	}

	tmp, err := os.CreateTemp(b.workspace, ".manifest-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.Path())
}

// Package dataset loads tabular score data and answers the per-domain
// availability question. Each distinct source is loaded at most once per
// run; availability failures are reported, never fatal.
package dataset

import (
	"strings"

	"github.com/psychometrika/reportforge/internal/domain"
)

// Loader loads all rows behind one logical data source.
type Loader interface {
	Load(source string) ([]domain.Row, error)
}

// multiLoader picks a concrete loader from the source suffix.
type multiLoader struct {
	csv    Loader
	sqlite Loader
}

// NewLoader returns the default loader: SQLite for .db/.sqlite sources,
// CSV for everything else. Sources are resolved relative to dataDir.
func NewLoader(dataDir string) Loader {
	return &multiLoader{
		csv:    &csvLoader{dir: dataDir},
		sqlite: &sqliteLoader{dir: dataDir},
	}
}

func (m *multiLoader) Load(source string) ([]domain.Row, error) {
	if strings.HasSuffix(source, ".db") || strings.HasSuffix(source, ".sqlite") {
		return m.sqlite.Load(source)
	}
	return m.csv.Load(source)
}

package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/psychometrika/reportforge/internal/domain"
)

// TableProcessor is the builtin fallback: a minimal LaTeX score table,
// used when no external process command is configured.
type TableProcessor struct{}

// NewTable creates the builtin table processor.
func NewTable() *TableProcessor {
	return &TableProcessor{}
}

var latexReplacer = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"&", "\\&",
	"%", "\\%",
	"#", "\\#",
	"_", "\\_",
	"$", "\\$",
)

func titleCase(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Process renders one domain variant as a section with a tabular block.
func (p *TableProcessor) Process(_ context.Context, key string, rows []domain.Row, tag domain.RaterTag) ([]byte, error) {
	var b strings.Builder

	title := titleCase(key)
	if tag != domain.RaterDefault && tag != "" {
		fmt.Fprintf(&b, "\\subsection{%s (%s report)}\n", title, tag)
	} else {
		fmt.Fprintf(&b, "\\subsection{%s}\n", title)
	}

	b.WriteString("\\begin{tabular}{llr}\n")
	b.WriteString("Instrument & Subtest & Score \\\\\n\\hline\n")
	for _, row := range rows {
		score, ok := row.Scores.Best()
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s & %s & %.1f \\\\\n",
			latexReplacer.Replace(row.Instrument),
			latexReplacer.Replace(row.Subtest),
			score)
	}
	b.WriteString("\\end{tabular}\n")

	return []byte(b.String()), nil
}

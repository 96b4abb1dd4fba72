// Package processor produces artifact content for one domain. The exec
// processor hands the filtered rows to an external command; the builtin
// processor renders a plain score table when no command is configured.
package processor

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/psychometrika/reportforge/internal/domain"
)

// ExecProcessor runs a configured external command per domain. Rows go
// in as CSV on stdin, artifact content comes back on stdout; the domain
// key and rater tag are passed in the environment.
type ExecProcessor struct {
	Command []string
}

// NewExec creates an exec-backed processor from an argv slice.
func NewExec(command []string) *ExecProcessor {
	return &ExecProcessor{Command: command}
}

// Process invokes the command for one domain variant.
func (p *ExecProcessor) Process(ctx context.Context, key string, rows []domain.Row, tag domain.RaterTag) ([]byte, error) {
	if len(p.Command) == 0 {
		return nil, fmt.Errorf("no process command configured")
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Env = append(cmd.Environ(),
		"REPORTFORGE_DOMAIN="+key,
		"REPORTFORGE_RATER="+string(tag),
	)

	var in bytes.Buffer
	if err := writeRowsCSV(&in, rows); err != nil {
		return nil, err
	}
	cmd.Stdin = &in

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("processing %s: %w: %s", key, err, msg)
		}
		return nil, fmt.Errorf("processing %s: %w", key, err)
	}
	return stdout.Bytes(), nil
}

func writeRowsCSV(buf *bytes.Buffer, rows []domain.Row) error {
	w := csv.NewWriter(buf)
	header := append([]string{"domain", "instrument", "subtest", "rater"}, domain.ScoreColumnNames...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{row.Label, row.Instrument, row.Subtest, string(row.Rater)}
		s := row.Scores
		for _, v := range []*float64{s.Percentile, s.Raw, s.Scaled, s.Standard, s.TScore, s.ZScore, s.Composite} {
			if v == nil {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.FormatFloat(*v, 'f', -1, 64))
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/manifest"
	"github.com/psychometrika/reportforge/internal/protect"
)

// StatusResponse is the API response for overall status
type StatusResponse struct {
	RunID     string `json:"run_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Generated int    `json:"generated"`
	Cached    int    `json:"cached"`
	Protected int    `json:"protected"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration,omitempty"`
}

// ArtifactResponse describes one on-disk artifact
type ArtifactResponse struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
	Protected  bool   `json:"protected"`
}

// DomainResponse is the API response for one domain
type DomainResponse struct {
	Key            string             `json:"key"`
	SectionOrdinal int                `json:"section_ordinal"`
	RaterCapable   bool               `json:"rater_capable"`
	Status         string             `json:"status,omitempty"`
	Error          string             `json:"error,omitempty"`
	Artifacts      []ArtifactResponse `json:"artifacts,omitempty"`
}

func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		s.mu.RLock()
		report := s.report
		s.mu.RUnlock()

		var resp StatusResponse
		if report != nil {
			resp = StatusResponse{
				RunID:     report.RunID,
				Subject:   report.Subject,
				Generated: report.Count(domain.StatusGenerated),
				Cached:    report.Count(domain.StatusCached),
				Protected: report.Count(domain.StatusProtected),
				Skipped:   report.Count(domain.StatusSkipped),
				Failed:    report.Count(domain.StatusFailed),
				Duration:  report.Duration().Round(time.Millisecond).String(),
			}
		}
		writeJSON(w, resp)
	}
}

func (s *Server) domainsHandler() http.HandlerFunc {
	tracker := protect.NewTracker()
	allTags := []domain.RaterTag{
		domain.RaterDefault, domain.RaterSelf, domain.RaterParent, domain.RaterTeacher, domain.RaterObserver,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		s.mu.RLock()
		report := s.report
		s.mu.RUnlock()

		statusByKey := make(map[string]domain.DomainResult)
		if report != nil {
			for _, res := range report.Results {
				statusByKey[res.Key] = res
			}
		}

		var out []DomainResponse
		for _, spec := range s.specs {
			resp := DomainResponse{
				Key:            spec.Key,
				SectionOrdinal: spec.SectionOrdinal,
				RaterCapable:   spec.RaterCapable,
			}
			if res, ok := statusByKey[spec.Key]; ok {
				resp.Status = string(res.Status)
				if res.Err != nil {
					resp.Error = res.Err.Error()
				}
			}
			for _, tag := range allTags {
				path := filepath.Join(s.workspace, spec.ArtifactName(tag))
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				resp.Artifacts = append(resp.Artifacts, ArtifactResponse{
					Path:       path,
					Size:       info.Size(),
					ModifiedAt: info.ModTime().Format(time.RFC3339),
					Protected:  tracker.IsProtected(path),
				})
			}
			out = append(out, resp)
		}
		writeJSON(w, out)
	}
}

func (s *Server) manifestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		data, err := os.ReadFile(filepath.Join(s.workspace, manifest.FileName))
		if err != nil {
			if os.IsNotExist(err) {
				writeError(w, http.StatusNotFound, "no manifest")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
	}
}

package api

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/psychometrika/reportforge/internal/domain"
	"github.com/psychometrika/reportforge/internal/manifest"
	"github.com/psychometrika/reportforge/internal/orchestrator"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	ws := t.TempDir()
	specs := []domain.DomainSpec{
		{Key: "memory", SectionOrdinal: 4},
		{Key: "behavior", SectionOrdinal: 10, RaterCapable: true},
	}
	return NewServer("127.0.0.1:0", ws, specs), ws
}

func TestStatusHandler(t *testing.T) {
	s, _ := testServer(t)
	report := &domain.RunReport{RunID: "run-1", Subject: "case-1"}
	report.Add(domain.DomainResult{Key: "memory", Status: domain.StatusGenerated})
	report.Add(domain.DomainResult{Key: "behavior", Status: domain.StatusSkipped})
	s.SetReport(report)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.RunID != "run-1" || status.Generated != 1 || status.Skipped != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestDomainsHandler(t *testing.T) {
	s, ws := testServer(t)
	if err := os.WriteFile(filepath.Join(ws, "04_memory.tex"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	report := &domain.RunReport{}
	report.Add(domain.DomainResult{Key: "memory", Status: domain.StatusGenerated})
	s.SetReport(report)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/domains")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var domains []DomainResponse
	if err := json.NewDecoder(resp.Body).Decode(&domains); err != nil {
		t.Fatal(err)
	}
	if len(domains) != 2 {
		t.Fatalf("got %d domains, want 2", len(domains))
	}
	if domains[0].Key != "memory" || domains[0].Status != "generated" {
		t.Errorf("memory response = %+v", domains[0])
	}
	if len(domains[0].Artifacts) != 1 {
		t.Errorf("memory artifacts = %+v, want 1 entry", domains[0].Artifacts)
	}
	// Artifact without marker counts as protected.
	if !domains[0].Artifacts[0].Protected {
		t.Error("unmarked artifact should report protected")
	}
}

func TestManifestHandler(t *testing.T) {
	s, ws := testServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/manifest")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("missing manifest status = %d, want 404", resp.StatusCode)
	}

	if err := os.WriteFile(filepath.Join(ws, manifest.FileName), []byte("\\input{04_memory.tex}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	resp, err = srv.Client().Get(srv.URL + "/api/manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("manifest status = %d, want 200", resp.StatusCode)
	}
}

func TestEventsWebsocket(t *testing.T) {
	s, _ := testServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Registration happens just after the handshake; give it a beat.
	time.Sleep(100 * time.Millisecond)
	s.HandleEvent(orchestrator.Event{Key: "memory", Status: domain.StatusGenerated})

	var ev orchestrator.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Key != "memory" || ev.Status != domain.StatusGenerated {
		t.Errorf("event = %+v", ev)
	}
}

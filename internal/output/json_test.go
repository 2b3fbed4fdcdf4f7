package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/masmgr/devcap-go/internal/model"
)

func TestJSONScanWriter_Write(t *testing.T) {
	data := writeToTempFile(t, &JSONScanWriter{}, sampleScanResult(), OutputOptions{Format: FormatJSON})

	var projects []map[string]interface{}
	if err := json.Unmarshal([]byte(data), &projects); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, data)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	api := projects[0]
	for _, key := range []string{"name", "path", "origin", "remote_url", "branches", "diff_stat"} {
		if _, ok := api[key]; !ok {
			t.Errorf("project is missing key %q", key)
		}
	}

	notes := projects[1]
	for _, key := range []string{"origin", "remote_url", "diff_stat"} {
		if _, ok := notes[key]; ok {
			t.Errorf("absent optional key %q should be omitted", key)
		}
	}

	branch := api["branches"].([]interface{})[0].(map[string]interface{})
	commit := branch["commits"].([]interface{})[0].(map[string]interface{})
	if commit["time"] != "2026-10-14T16:00:00Z" {
		t.Errorf("commit time = %v", commit["time"])
	}
	for _, key := range []string{"hash", "author", "message", "commit_type", "relative_time", "url", "diff_stat"} {
		if _, ok := commit[key]; !ok {
			t.Errorf("commit is missing key %q", key)
		}
	}
}

func TestJSONScanWriter_EmptyIsArray(t *testing.T) {
	data := writeToTempFile(t, &JSONScanWriter{}, &model.ScanResult{}, OutputOptions{Format: FormatJSON})
	if strings.TrimSpace(data) != "[]" {
		t.Errorf("empty result = %q, expected []", data)
	}
}

func TestMarshalProjects(t *testing.T) {
	data, err := MarshalProjects(nil)
	if err != nil {
		t.Fatalf("MarshalProjects(nil): %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("MarshalProjects(nil) = %s, expected []", data)
	}

	data, err = MarshalProjects(sampleScanResult().Projects[1:])
	if err != nil {
		t.Fatalf("MarshalProjects: %v", err)
	}
	if !strings.HasPrefix(string(data), `[{"name":"notes","path":"/home/dev/src/notes","branches":[`) {
		t.Errorf("unexpected encoding: %s", data)
	}
}

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/16205/pmereporter/core/conflict"
	"github.com/16205/pmereporter/core/document"
)

func samplePlans() []document.Plan {
	return []document.Plan{
		{
			MissionKey:    "1001",
			MissionDate:   time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC),
			ResourceNames: []string{"DOE John", "SMITH Anna"},
			Blocks: []document.Block{
				{Kind: document.KindHeading, Level: 1, Text: "Mission order"},
				{Kind: document.KindKeyValue, Key: "Date", Text: "12 Mar 2026"},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePlans()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got []document.Plan
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].MissionKey != "1001" {
		t.Fatalf("unexpected plans: %+v", got)
	}
	if got[0].Blocks[1].Key != "Date" {
		t.Fatalf("block lost in round trip: %+v", got[0].Blocks)
	}
}

func TestFileName(t *testing.T) {
	name := FileName(samplePlans()[0])
	want := "OM_20260312_DOE John_SMITH Anna_1001.json"
	if name != want {
		t.Fatalf("got %q, want %q", name, want)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFiles(filepath.Join(dir, "orders"), samplePlans()); err != nil {
		t.Fatalf("write files: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "orders", FileName(samplePlans()[0])))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got document.Plan
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MissionKey != "1001" {
		t.Fatalf("unexpected plan: %+v", got)
	}
}

func TestWriteConflictsCSV(t *testing.T) {
	c := conflict.Conflicts{
		"S-12": {"1001", "1002"},
		"S-05": {"1003", "1004"},
	}
	var buf bytes.Buffer
	if err := WriteConflictsCSV(&buf, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"source_key,missions",
		"S-05,1003 1004",
		"S-12,1001 1002",
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

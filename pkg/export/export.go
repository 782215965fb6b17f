package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/16205/pmereporter/core/conflict"
	"github.com/16205/pmereporter/core/document"
)

// WriteJSON writes the document plans to w in JSON format.
func WriteJSON(w io.Writer, plans []document.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plans)
}

// WriteFiles writes one JSON file per plan into dir. Files are named after
// the mission date, the assigned technicians and the mission key, matching
// the naming the field teams already use for their orders.
func WriteFiles(dir string, plans []document.Plan) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range plans {
		f, err := os.Create(filepath.Join(dir, FileName(p)))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// FileName returns the file name one plan is exported under.
func FileName(p document.Plan) string {
	parts := []string{p.MissionDate.Format("20060102")}
	parts = append(parts, p.ResourceNames...)
	parts = append(parts, p.MissionKey)
	return fmt.Sprintf("OM_%s.json", strings.Join(parts, "_"))
}

// WriteConflictsJSON writes the double-booking report to w in JSON format.
func WriteConflictsJSON(w io.Writer, c conflict.Conflicts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// WriteConflictsCSV writes the double-booking report to w as CSV.
func WriteConflictsCSV(w io.Writer, c conflict.Conflicts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source_key", "missions"}); err != nil {
		return err
	}
	for _, src := range c.SourceKeys() {
		if err := cw.Write([]string{src, strings.Join(c[src], " ")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

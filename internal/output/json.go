package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/masmgr/devcap-go/internal/model"
)

// JSONScanWriter writes the project list as a JSON array.
type JSONScanWriter struct{}

// Write outputs the scan result as a JSON array of projects. An empty
// result is written as [].
func (w *JSONScanWriter) Write(result *model.ScanResult, options OutputOptions) error {
	return writeJSON(nonNil(limitTop(result.Projects, options.Top)), options.OutputPath)
}

// MarshalProjects encodes projects as a compact JSON array. A nil slice
// is encoded as [].
func MarshalProjects(projects []model.ProjectLog) ([]byte, error) {
	data, err := json.Marshal(nonNil(projects))
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}

func nonNil(projects []model.ProjectLog) []model.ProjectLog {
	if projects == nil {
		return []model.ProjectLog{}
	}
	return projects
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

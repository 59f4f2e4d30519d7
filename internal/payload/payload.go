// Package payload decodes digest requests and encodes digest results.
//
// A request is a single document with two aligned fields, "embeddings"
// (N rows of D numbers) and "messages" (N opaque values). A result carries
// the selected messages under "representatives", unchanged.
package payload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thebtf/threaddigest/pkg/models"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Input is a decoded digest request.
type Input struct {
	Embeddings models.Matrix
	Messages   []models.Message
}

// Output is a digest result.
type Output struct {
	Representatives []models.Message `json:"representatives"`
	Clusters        []ClusterDetail  `json:"clusters,omitempty"`
}

// ClusterDetail describes how one representative was chosen.
type ClusterDetail struct {
	Label    int     `json:"label" yaml:"label"`
	Index    int     `json:"index" yaml:"index"`
	Size     int     `json:"size" yaml:"size"`
	Distance float64 `json:"distance" yaml:"distance"`
}

package payload

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/threaddigest/pkg/models"
)

// Encode writes out to w in the given format. Messages are written as the
// values they were decoded from.
func Encode(w io.Writer, format Format, out *Output) error {
	if out.Representatives == nil {
		// always emit a list, never null
		out = &Output{Representatives: []models.Message{}, Clusters: out.Clusters}
	}

	switch format {
	case FormatYAML:
		return encodeYAML(w, out)
	case FormatJSON, "":
		return encodeJSON(w, out)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func encodeJSON(w io.Writer, out *Output) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	return nil
}

// yamlOutput mirrors Output with messages as YAML nodes.
type yamlOutput struct {
	Representatives []*yaml.Node    `yaml:"representatives"`
	Clusters        []ClusterDetail `yaml:"clusters,omitempty"`
}

func encodeYAML(w io.Writer, out *Output) error {
	doc := yamlOutput{
		Representatives: make([]*yaml.Node, len(out.Representatives)),
		Clusters:        out.Clusters,
	}
	for i, msg := range out.Representatives {
		node, err := messageNode(msg)
		if err != nil {
			return fmt.Errorf("encode YAML output: message %d: %w", i, err)
		}
		doc.Representatives[i] = node
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode YAML output: %w", err)
	}
	return enc.Close()
}

// messageNode parses a JSON message as YAML, which keeps number and bool
// literals with their resolved tags, and switches it to block style.
func messageNode(msg models.Message) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(msg, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	node := doc.Content[0]
	clearStyle(node)
	return node, nil
}

// clearStyle drops the flow and quoting styles inherited from JSON. The
// encoder still quotes strings that would otherwise read back as another type.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

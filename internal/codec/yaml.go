package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec writes one YAML document per endpoint
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

type yamlRecord struct {
	Endpoint string     `yaml:"endpoint"`
	Status   int        `yaml:"status,omitempty"`
	Duration string     `yaml:"duration"`
	Response *yaml.Node `yaml:"response,omitempty"`
	Error    string     `yaml:"error,omitempty"`
}

// Encode writes rec as a "---" separated document
func (c *YAMLCodec) Encode(w io.Writer, rec Record) error {
	yr := yamlRecord{
		Endpoint: rec.Endpoint,
		Status:   rec.Status,
		Duration: rec.Duration.String(),
		Error:    rec.Error,
	}

	if rec.Error == "" && len(rec.Response) > 0 {
		node, err := responseNode(rec.Response)
		if err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", rec.Endpoint, err)
		}
		yr.Response = node
	}

	data, err := yaml.Marshal(yr)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// responseNode parses a JSON document as YAML, which keeps key order and the
// int, float, bool and null tags of every scalar. The JSON flow style is
// dropped so the document prints in block style.
func responseNode(data json.RawMessage) (*yaml.Node, error) {
	if !json.Valid(data) {
		return nil, errors.New("not a JSON document")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("empty document")
	}

	root := doc.Content[0]
	clearStyle(root)
	return root, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}

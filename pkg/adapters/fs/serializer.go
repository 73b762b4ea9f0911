package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/md"
	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads from r and returns a Page.
	Parse(r io.Reader, metadataKey string) (*core.Page, error)
	// Serialize converts the Page to bytes.
	Serialize(page core.Page, metadataKey string) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers.
// Markdown pages are the primary format; JSON and YAML cover structured
// sidecar files (navigation, glossaries) that live alongside them.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
		".md":   NewMarkdownSerializer(strict),
	}
}

// --- Markdown Serializer ---

// MarkdownSerializer handles pages: YAML front matter plus a Markdown body.
type MarkdownSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewMarkdownSerializer creates a new Markdown serializer.
// Optional strict mode prevents float64 conversion for large integers.
func NewMarkdownSerializer(strict bool) *MarkdownSerializer {
	return &MarkdownSerializer{Strict: strict}
}

func (s *MarkdownSerializer) Parse(r io.Reader, metadataKey string) (*core.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, body, _, err := md.ParseFrontMatter(data)
	if err != nil {
		return nil, err
	}

	page := &core.Page{
		Metadata: core.Metadata(meta),
		Content:  string(body),
	}

	if s.Strict {
		page.Metadata = recursiveNormalize(page.Metadata).(core.Metadata)
	}

	return page, nil
}

func (s *MarkdownSerializer) Serialize(page core.Page, metadataKey string) ([]byte, error) {
	var buf bytes.Buffer
	if len(page.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(page.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(page.Content)
	return buf.Bytes(), nil
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
// Optional strict mode prevents float64 conversion for large integers.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Parse(r io.Reader, metadataKey string) (*core.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	page := &core.Page{Metadata: make(core.Metadata)}
	if metadataKey != "" {
		if meta, ok := payload[metadataKey].(map[string]interface{}); ok {
			page.Metadata = meta
			delete(payload, metadataKey)
		}
	} else {
		page.Metadata = payload
	}

	if c, ok := payload["content"].(string); ok {
		page.Content = c
		if metadataKey == "" {
			delete(page.Metadata, "content")
		}
	}

	return page, nil
}

func (s *JSONSerializer) Serialize(page core.Page, metadataKey string) ([]byte, error) {
	payload := make(map[string]interface{})

	if metadataKey != "" {
		payload[metadataKey] = page.Metadata
	} else {
		for k, v := range page.Metadata {
			payload[k] = v
		}
	}

	if page.Content != "" || metadataKey == "" {
		payload["content"] = page.Content
	}

	return json.MarshalIndent(payload, "", "  ")
}

// --- YAML Serializer ---

type YAMLSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
// Optional strict mode prevents float64 conversion for large integers.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Parse(r io.Reader, metadataKey string) (*core.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	page := &core.Page{Metadata: make(core.Metadata)}
	if metadataKey != "" {
		if meta, ok := payload[metadataKey].(map[string]interface{}); ok {
			page.Metadata = meta
			delete(payload, metadataKey)
		}
	} else {
		page.Metadata = payload
	}

	if c, ok := payload["content"].(string); ok {
		page.Content = c
		if metadataKey == "" {
			delete(page.Metadata, "content")
		}
	}

	if s.Strict {
		page.Metadata = recursiveNormalize(page.Metadata).(core.Metadata)
	}

	return page, nil
}

func (s *YAMLSerializer) Serialize(page core.Page, metadataKey string) ([]byte, error) {
	payload := make(map[string]interface{})

	if metadataKey != "" {
		payload[metadataKey] = page.Metadata
	} else {
		for k, v := range page.Metadata {
			payload[k] = v
		}
	}

	if page.Content != "" || metadataKey == "" {
		payload["content"] = page.Content
	}

	return yaml.Marshal(payload)
}

// --- Helpers ---

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
// This ensures consistency with JSON Strict mode.
func recursiveNormalize(val interface{}) interface{} {
	switch v := val.(type) {
	case core.Metadata:
		m := make(core.Metadata)
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{})
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		// -1 precision uses the smallest number of digits necessary.
		return json.Number(fmt.Sprintf("%v", v))
	case int32:
		return json.Number(fmt.Sprintf("%d", v))
	default:
		return v
	}
}

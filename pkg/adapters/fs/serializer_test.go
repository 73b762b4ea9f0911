package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/md"
)

func TestSerializers(t *testing.T) {
	page := core.Page{
		ID:      "guides/install",
		Content: "Hello World",
		Metadata: core.Metadata{
			"title": "Test Title",
			"tags":  []interface{}{"a", "b"},
			"meta": map[string]interface{}{
				"foo": "bar",
			},
		},
	}

	serializers := DefaultSerializers(false)

	tests := []struct {
		ext string
	}{
		{".json"},
		{".yaml"},
		{".md"},
	}

	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			s := serializers[tc.ext]

			data, err := s.Serialize(page, "")
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			parsed, err := s.Parse(bytes.NewReader(data), "")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if strings.TrimSpace(parsed.Content) != strings.TrimSpace(page.Content) {
				t.Errorf("Content mismatch. Want %q, got %q", page.Content, parsed.Content)
			}

			if parsed.Metadata["title"] != "Test Title" {
				t.Errorf("Metadata 'title' mismatch")
			}

			tags, ok := parsed.Metadata["tags"].([]interface{})
			if !ok {
				t.Logf("Tag type: %T", parsed.Metadata["tags"])
				t.Errorf("Metadata 'tags' is not []interface{}")
			} else if len(tags) != 2 {
				t.Errorf("Tags length mismatch")
			}

			val := parsed.Metadata["meta"]
			var meta map[string]interface{}
			switch v := val.(type) {
			case map[string]interface{}:
				meta = v
			case core.Metadata:
				meta = map[string]interface{}(v)
			default:
				t.Logf("Meta type: %T", val)
				t.Errorf("Metadata 'meta' is not a map")
			}
			if meta != nil && meta["foo"] != "bar" {
				t.Errorf("Meta 'foo' mismatch")
			}
		})
	}
}

func TestMarkdownSerializer(t *testing.T) {
	s := NewMarkdownSerializer(false)

	t.Run("Omits Front Matter Without Metadata", func(t *testing.T) {
		data, err := s.Serialize(core.Page{ID: "plain", Content: "just text"}, "")
		if err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if string(data) != "just text" {
			t.Errorf("expected bare body, got %q", string(data))
		}
	})

	t.Run("Parses Front Matter Pages", func(t *testing.T) {
		input := "---\ntitle: Install\nexcerpt: Short summary.\n---\n# Install\n"

		page, err := s.Parse(strings.NewReader(input), "")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if page.Title() != "Install" {
			t.Errorf("expected title Install, got %q", page.Title())
		}
		if page.Excerpt() != "Short summary." {
			t.Errorf("expected excerpt, got %q", page.Excerpt())
		}
		if page.Content != "# Install\n" {
			t.Errorf("unexpected body: %q", page.Content)
		}
	})

	t.Run("Surfaces Unclosed Front Matter", func(t *testing.T) {
		_, err := s.Parse(strings.NewReader("---\ntitle: Broken\n"), "")
		if !errors.Is(err, md.ErrUnclosedFrontMatter) {
			t.Errorf("expected ErrUnclosedFrontMatter, got %v", err)
		}
	})
}

func TestMetadataKeyNesting(t *testing.T) {
	page := core.Page{
		ID:       "nested",
		Content:  "body",
		Metadata: core.Metadata{"title": "Nested"},
	}

	s := NewJSONSerializer(false)
	data, err := s.Serialize(page, "fm")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// The raw document nests metadata under the configured key.
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if _, ok := payload["fm"].(map[string]interface{}); !ok {
		t.Fatalf("expected metadata under 'fm', got %v", payload)
	}

	parsed, err := s.Parse(bytes.NewReader(data), "fm")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Metadata["title"] != "Nested" {
		t.Errorf("expected unnested title, got %v", parsed.Metadata)
	}
	if parsed.Content != "body" {
		t.Errorf("expected content to survive, got %q", parsed.Content)
	}
}

func TestJSONSerializer_Strict(t *testing.T) {
	jsonContent := `{"big_id": 9223372036854775807}` // Max Int64
	reader := strings.NewReader(jsonContent)

	// 1. Strict Mode
	strictSerializer := NewJSONSerializer(true)
	page, err := strictSerializer.Parse(reader, "")
	if err != nil {
		t.Fatalf("Strict Parse failed: %v", err)
	}

	val := page.Metadata["big_id"]
	if _, ok := val.(json.Number); !ok {
		t.Errorf("Strict Mode: Expected json.Number, got %T", val)
	}

	// 2. Loose Mode (Default)
	reader.Reset(jsonContent)
	looseSerializer := NewJSONSerializer(false)
	pageLoose, err := looseSerializer.Parse(reader, "")
	if err != nil {
		t.Fatalf("Loose Parse failed: %v", err)
	}

	valLoose := pageLoose.Metadata["big_id"]
	if _, ok := valLoose.(float64); !ok {
		t.Errorf("Loose Mode: Expected float64, got %T", valLoose)
	}
}

package md

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnclosedFrontMatter signals a page that opens a front matter block and
// never closes it.
var ErrUnclosedFrontMatter = errors.New("front matter started but no closing delimiter found")

// SplitFrontMatter separates the YAML front matter block from the body.
// bodyLine is the 1-based line the body starts on, so diagnostics computed
// against the body can be mapped back to file positions.
//
// A page without a leading "---" has no front matter; the whole input is the
// body and bodyLine is 1.
func SplitFrontMatter(data []byte) (meta, body []byte, bodyLine int, err error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, data, 1, nil
	}

	// Scan line by line for the closing delimiter. A "---" embedded in a YAML
	// value must not close the block.
	metaStart := bytes.IndexByte(data, '\n') + 1
	rest := data[metaStart:]
	line := 2
	for len(rest) > 0 {
		next := bytes.IndexByte(rest, '\n')
		cur := rest
		if next != -1 {
			cur = rest[:next]
		}

		if string(bytes.TrimRight(cur, "\r")) == "---" {
			meta = data[metaStart : len(data)-len(rest)]
			if next == -1 {
				return meta, nil, line + 1, nil
			}
			return meta, rest[next+1:], line + 1, nil
		}

		if next == -1 {
			break
		}
		rest = rest[next+1:]
		line++
	}

	return nil, nil, 0, ErrUnclosedFrontMatter
}

// ParseFrontMatter splits and decodes a page file.
// The returned map is nil-safe: pages without front matter yield an empty map.
func ParseFrontMatter(data []byte) (meta map[string]interface{}, body []byte, bodyLine int, err error) {
	rawMeta, body, bodyLine, err := SplitFrontMatter(data)
	if err != nil {
		return nil, nil, 0, err
	}

	meta = make(map[string]interface{})
	if len(rawMeta) > 0 {
		if err := yaml.Unmarshal(rawMeta, &meta); err != nil {
			return nil, nil, 0, fmt.Errorf("failed to parse front matter: %w", err)
		}
	}

	return meta, body, bodyLine, nil
}

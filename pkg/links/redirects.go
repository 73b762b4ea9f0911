package links

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// RedirectsFile is the redirect table's filename at the content root.
const RedirectsFile = "redirects.csv"

// LoadRedirects reads the redirect table from the content root. A missing
// file is not an error; sites without moved pages simply have no table.
//
// The format is CSV with a "from,to" header and one mapping per row. Later
// rows win when a source repeats.
func LoadRedirects(root string) (map[string]string, error) {
	f, err := os.Open(filepath.Join(root, RedirectsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to open redirect table: %w", err)
	}
	defer f.Close()

	return ParseRedirects(f)
}

// ParseRedirects decodes a redirect table from r. See LoadRedirects for the
// format.
func ParseRedirects(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("redirect table is empty, expected a from,to header")
		}
		return nil, fmt.Errorf("failed to read redirect table header: %w", err)
	}
	if !strings.EqualFold(header[0], "from") || !strings.EqualFold(header[1], "to") {
		return nil, fmt.Errorf("redirect table header must be from,to, got %s,%s", header[0], header[1])
	}

	redirects := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read redirect table row: %w", err)
		}
		from := normalizeID(strings.TrimSpace(record[0]))
		to := normalizeID(strings.TrimSpace(record[1]))
		if from == "" || to == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("redirect table row %d has an empty side", line)
		}
		redirects[from] = to
	}
	return redirects, nil
}

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/lint"
)

// ConfigFile is the optional site configuration filename at the content root.
const ConfigFile = "folio.yaml"

// SiteConfig is the per-site configuration loaded from folio.yaml. All
// fields are optional; a missing file yields the zero value.
type SiteConfig struct {
	// Ignore holds doublestar globs of paths invisible to List, Watch,
	// and lint.
	Ignore []string `yaml:"ignore"`
	// Languages extends the recognized code fence languages.
	Languages []string `yaml:"languages"`
	// Rules overrides lint severities per rule ID ("error", "warning", "off").
	Rules map[string]lint.Severity `yaml:"rules"`
}

// LoadSiteConfig reads folio.yaml from the site root.
func LoadSiteConfig(root string) (*SiteConfig, error) {
	cfg := &SiteConfig{}

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	return cfg, nil
}

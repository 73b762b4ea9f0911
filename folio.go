package folio

import (
	"context"
	"log/slog"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/lint"
	"github.com/aretw0/folio/pkg/links"
)

// --- Configuration ---

// Option defines a functional option for configuring Folio.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the site (creates the
// directory and a git repo).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables version control (Git).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the site directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory name (e.g. ".folio").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithIgnore sets content ignore patterns (doublestar globs).
func WithIgnore(patterns ...string) Option {
	return platform.WithIgnore(patterns...)
}

// WithStrict enables strict number parsing in all default serializers.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp-dir sandbox applied under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSerializer registers a custom serializer for a file extension. The
// value must implement fs.Serializer; it is validated during Init.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// --- Factory ---

// New creates a Folio service for the site at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly, without the service layer.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Operations ---

// Sync performs a pull/push synchronization of the site with its remote.
func Sync(path string, opts ...Option) error {
	return platform.Sync(path, opts...)
}

// Lint checks the site's content contract: front matter, headings, code
// fences, links, and redirects. Extra ignore patterns stack on top of the
// site config. The run is read-only.
func Lint(ctx context.Context, path string, ignore []string, opts ...Option) (*lint.Report, error) {
	return platform.Lint(ctx, path, ignore, opts...)
}

// Links builds the cross-reference graph of the site, read-only. The graph
// answers backlink, orphan, and broken-link queries.
func Links(ctx context.Context, path string, opts ...Option) (*links.Graph, error) {
	return platform.Graph(ctx, path, opts...)
}

// --- Safety & Utils ---

// ResolveSitePath determines the actual path for the site based on safety
// rules.
func ResolveSitePath(userPath string, forceTemp bool) string {
	return platform.ResolveSitePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindSiteRoot looks upwards from startDir for a site root indicator
// (.folio, .git, or folio.yaml).
func FindSiteRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// LoadSiteConfig reads the optional folio.yaml at the site root.
func LoadSiteConfig(root string) (*platform.SiteConfig, error) {
	return platform.LoadSiteConfig(root)
}

// SiteConfig is the per-site configuration from folio.yaml.
type SiteConfig = platform.SiteConfig

// --- Semantic Commits ---

// Commit types for shaping change reasons into Conventional Commits.
const (
	CommitTypeFeat     = platform.CommitTypeFeat
	CommitTypeFix      = platform.CommitTypeFix
	CommitTypeDocs     = platform.CommitTypeDocs
	CommitTypeStyle    = platform.CommitTypeStyle
	CommitTypeRefactor = platform.CommitTypeRefactor
	CommitTypePerf     = platform.CommitTypePerf
	CommitTypeTest     = platform.CommitTypeTest
	CommitTypeChore    = platform.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the Folio footer to an arbitrary message.
func AppendFooter(msg string) string {
	return platform.AppendFooter(msg)
}

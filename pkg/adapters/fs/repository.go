// Package fs persists a documentation site as plain files under a content
// root, with Git providing history and synchronization.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/md"
)

// Repository implements core.Repository using the filesystem and Git.
type Repository struct {
	Path        string
	git         *git.Client
	index       *siteIndex
	config      Config
	serializers map[string]Serializer

	loadOnce sync.Once

	mu            sync.RWMutex
	readOnly      bool
	watcherActive bool
	lastReconcile *time.Time
	selfWrites    map[string]string // relPath -> sha256 of the bytes we wrote
	transactions  map[string]bool   // active transaction IDs
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Strict       bool
	Logger       *slog.Logger
	ErrorHandler func(error)
	SystemDir    string   // e.g. ".folio"
	MetadataKey  string   // If set, metadata is nested under this key in JSON/YAML files.
	Ignore       []string // doublestar globs relative to the content root, e.g. "drafts/**"
	Serializers  map[string]Serializer
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".folio"
	}

	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers(config.Strict)
	}

	return &Repository{
		Path:         config.Path,
		git:          git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config:       config,
		index:        newIndex(config.Path, config.SystemDir),
		serializers:  serializers,
		readOnly:     config.ReadOnly,
		selfWrites:   make(map[string]string),
		transactions: make(map[string]bool),
	}
}

var _ core.Transactional = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
var _ core.Indexer = (*Repository)(nil)

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.readOnly {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(r), nil
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
// In read-only mode it only validates that the content root exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("site path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("site path is not a directory: %s", r.Path)
		}
		return nil
	}

	// 1. Directory Initialization
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("site path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("site path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create site directory: %w", err)
		}
	}

	// 2. Git Initialization
	if !r.config.Gitless {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}

		wasNewRepo := false
		if !r.git.IsRepo() {
			if r.config.AutoInit {
				if err := r.git.Init(); err != nil {
					return fmt.Errorf("failed to git init: %w", err)
				}
				wasNewRepo = true
			} else {
				return fmt.Errorf("path is not a git repository: %s", r.Path)
			}
		}

		// Ensure .gitignore has the system directory
		mod, err := r.ensureIgnore()
		if err != nil {
			return fmt.Errorf("failed to ensure .gitignore: %w", err)
		}

		if mod && wasNewRepo {
			// If we just created the repo, commit the .gitignore to start clean
			if err := r.git.Add(".gitignore"); err != nil {
				return fmt.Errorf("failed to add .gitignore: %w", err)
			}
			if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
				return fmt.Errorf("failed to commit .gitignore: %w", err)
			}
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	// The system dir plus the lock file, which a crashed process can leave behind.
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	// Read existing
	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range wanted {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	// Append
	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// Ensure newline if needed
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	for _, entry := range missing {
		if _, err := f.WriteString(entry + "\n"); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}

	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

// Save persists a page to the filesystem and commits it to Git.
//
// Workflow:
//  1. Validate ID and determine extension strategy.
//  2. Create parent directories.
//  3. Serialize (front matter + body for pages) and write atomically.
//  4. Record the write checksum so the watcher can tell our writes from the author's.
//  5. Refresh the page's index entry.
//  6. (If Git enabled) 'git add' and 'git commit' with context metadata.
func (r *Repository) Save(ctx context.Context, page core.Page) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if page.ID == "" {
		return fmt.Errorf("page has no ID")
	}

	filename, s, err := r.fileFor(page)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(r.Path, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := s.Serialize(page, r.config.MetadataKey)
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.ToSlash(filename)
	r.recordSelfWrite(relPath, data)

	r.ensureIndex()
	if info, serr := os.Stat(fullPath); serr == nil {
		r.setEntryFromPage(relPath, page, info.ModTime())
	}
	if err := r.index.Save(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index save failed", "error", err)
	}

	if !r.config.Gitless {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Add(filename); err != nil {
			return fmt.Errorf("failed to git add: %w", err)
		}

		msg := "update " + page.ID
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	return nil
}

// Get retrieves a page from the filesystem.
//
// Workflow:
//  1. IDs carrying a registered extension map straight to their file.
//  2. Extensionless IDs default to .md, then fall back to scanning the other
//     registered extensions (smart retrieval).
//  3. Parse via the serializer registered for the resolved extension.
func (r *Repository) Get(ctx context.Context, id string) (core.Page, error) {
	fullPath, ext := r.locate(id)

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Page{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Page{}, err
	}
	defer f.Close()

	s, ok := r.serializers[ext]
	if !ok {
		return core.Page{}, fmt.Errorf("no serializer registered for %s", ext)
	}

	page, err := s.Parse(f, r.config.MetadataKey)
	if err != nil {
		return core.Page{}, fmt.Errorf("failed to parse page %s: %w", id, err)
	}
	page.ID = id

	return *page, nil
}

// locate maps an ID to the file path and extension that should serve it.
func (r *Repository) locate(id string) (string, string) {
	ext := filepath.Ext(id)
	if _, ok := r.serializers[ext]; ok {
		return filepath.Join(r.Path, id), ext
	}

	// Extensionless (or dotted-name) ID: the default page path wins.
	mdPath := filepath.Join(r.Path, id+".md")
	if _, err := os.Stat(mdPath); err == nil {
		return mdPath, ".md"
	}

	// Smart Retrieval: scan the other registered extensions in stable order.
	exts := make([]string, 0, len(r.serializers))
	for e := range r.serializers {
		if e != ".md" {
			exts = append(exts, e)
		}
	}
	sort.Strings(exts)

	for _, e := range exts {
		p := filepath.Join(r.Path, id+e)
		if _, err := os.Stat(p); err == nil {
			return p, e
		}
	}

	// Nothing matched; report the default candidate so the caller's error
	// names a concrete path.
	return mdPath, ".md"
}

// fileFor resolves the filename and serializer a page should be written with.
// Extensionless IDs default to .md unless the metadata carries an "ext" hint
// (Smart Extension Detection).
func (r *Repository) fileFor(page core.Page) (string, Serializer, error) {
	ext := filepath.Ext(page.ID)
	if _, ok := r.serializers[ext]; !ok {
		// Unknown suffix ("v2.0" and friends) is part of the name, not a format.
		ext = ""
	}

	if ext == "" {
		if val, ok := page.Metadata["ext"].(string); ok && val != "" {
			if strings.HasPrefix(val, ".") {
				ext = val
			} else {
				ext = "." + val
			}
		} else {
			ext = ".md" // Default
		}
	}

	filename := page.ID
	if filepath.Ext(page.ID) != ext {
		filename = page.ID + ext
	}

	s, ok := r.serializers[ext]
	if !ok {
		return "", nil, fmt.Errorf("no serializer registered for %s", ext)
	}
	return filename, s, nil
}

// List scans the content root for all pages.
//
// Strategy:
//  1. Load the persisted index (once per repository).
//  2. Walk the tree (skipping .git, the system dir, dotfiles, ignored paths).
//  3. For each supported file:
//     a. Index hit (mtime match): rebuild the page header from the entry (FAST).
//     b. Miss: full parse, analyze the body, refresh the entry.
//  4. Prune entries for deleted files and save the index back.
func (r *Repository) List(ctx context.Context) ([]core.Page, error) {
	var pages []core.Page

	r.ensureIndex()
	seen := make(map[string]bool)

	err := r.walkSite(func(relPath, fullPath string, d os.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if entry, hit := r.index.Get(relPath, mtime); hit {
			pages = append(pages, pageFromEntry(entry))
			return nil
		}

		page, err := r.Get(ctx, r.idFor(relPath))
		if err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("skipping unparseable file", "path", relPath, "error", err)
			}
			return nil
		}

		r.setEntryFromPage(relPath, page, mtime)
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.index.Prune(seen)
	if !r.readOnly {
		if err := r.index.Save(); err != nil && r.config.Logger != nil {
			r.config.Logger.Debug("index save failed", "error", err)
		}
	}

	return pages, nil
}

// Index refreshes the site index and returns its entries, ordered by page ID.
func (r *Repository) Index(ctx context.Context) ([]core.IndexEntry, error) {
	if _, err := r.List(ctx); err != nil {
		return nil, err
	}
	return r.index.Snapshot(), nil
}

// RawPage is a page file exactly as it sits on disk.
type RawPage struct {
	ID   string
	Path string // site-relative
	Data []byte
}

// RawPages returns every markdown page, unparsed. Content checks want the raw
// bytes so they can report parse failures instead of skipping them the way
// List does.
func (r *Repository) RawPages(ctx context.Context) ([]RawPage, error) {
	var pages []RawPage

	err := r.walkSite(func(relPath, fullPath string, d os.DirEntry) error {
		if !strings.HasSuffix(relPath, ".md") {
			return nil
		}
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return err
		}
		pages = append(pages, RawPage{
			ID:   r.idFor(relPath),
			Path: relPath,
			Data: data,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pages, nil
}

// Delete removes a page.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.readOnly {
		return core.ErrReadOnly
	}

	filename := id
	ext := filepath.Ext(id)
	if _, ok := r.serializers[ext]; !ok {
		ext = ""
	}
	if ext == "" {
		ext = ".md"
		filename = id + ext
	}

	fullPath := filepath.Join(r.Path, filename)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
	} else {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Rm(filename); err != nil {
			return fmt.Errorf("failed to git rm: %w", err)
		}

		msg := "delete " + id
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	relPath := filepath.ToSlash(filename)
	r.ensureIndex()
	r.index.Delete(relPath)
	r.clearSelfWrite(relPath)
	if err := r.index.Save(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index save failed", "error", err)
	}

	return nil
}

// --- Walk and index helpers (Private) ---

// ensureIndex loads the persisted index on first use. Loading lazily keeps
// NewRepository cheap and side-effect free.
func (r *Repository) ensureIndex() {
	r.loadOnce.Do(func() {
		if err := r.index.Load(); err != nil && r.config.Logger != nil {
			r.config.Logger.Debug("index load failed, starting empty", "error", err)
		}
	})
}

// walkSite visits every supported content file under the root, skipping VCS
// internals, the system dir, dotfiles, and ignored paths.
func (r *Repository) walkSite(fn func(relPath, fullPath string, d os.DirEntry) error) error {
	return filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == r.Path {
			return nil
		}

		rel, rerr := filepath.Rel(r.Path, path)
		if rerr != nil {
			return rerr
		}
		relPath := filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == r.config.SystemDir || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		// Dotfiles (including pending atomic writes) are never content.
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		if _, ok := r.serializers[filepath.Ext(d.Name())]; !ok {
			return nil
		}

		if r.ignored(relPath) {
			return nil
		}

		return fn(relPath, path, d)
	})
}

// ignored reports whether a site-relative path matches any configured ignore glob.
func (r *Repository) ignored(relPath string) bool {
	for _, pattern := range r.config.Ignore {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// idFor derives the page ID for a site-relative path. Markdown drops its
// extension; other formats keep theirs so Get can find them directly.
func (r *Repository) idFor(relPath string) string {
	if strings.HasSuffix(relPath, ".md") {
		return strings.TrimSuffix(relPath, ".md")
	}
	return relPath
}

// setEntryFromPage refreshes the index entry for a page, analyzing markdown
// bodies for headings, links, and fence languages.
func (r *Repository) setEntryFromPage(relPath string, page core.Page, mtime time.Time) {
	entry := &core.IndexEntry{
		ID:           page.ID,
		Title:        page.Title(),
		Excerpt:      page.Excerpt(),
		Slug:         page.Slug(),
		Redirect:     page.Redirect(),
		Draft:        page.Draft(),
		Tags:         page.Tags(),
		LastModified: mtime,
	}

	if strings.HasSuffix(relPath, ".md") {
		a := md.Analyze([]byte(page.Content))
		entry.Headings = a.Anchors()
		entry.Links = a.Destinations()
		entry.Languages = a.Languages()
	}

	r.index.Set(relPath, entry)
}

// pageFromEntry rebuilds a page header from an index entry. Content is left
// empty; callers needing the body must Get the page.
func pageFromEntry(entry *core.IndexEntry) core.Page {
	meta := make(core.Metadata)
	if entry.Title != "" {
		meta["title"] = entry.Title
	}
	if entry.Excerpt != "" {
		meta["excerpt"] = entry.Excerpt
	}
	if entry.Slug != "" {
		meta["slug"] = entry.Slug
	}
	if entry.Redirect != "" {
		meta["redirect"] = entry.Redirect
	}
	if entry.Draft {
		meta["draft"] = true
	}
	if len(entry.Tags) > 0 {
		tags := make([]interface{}, len(entry.Tags))
		for i, t := range entry.Tags {
			tags[i] = t
		}
		meta["tags"] = tags
	}

	return core.Page{ID: entry.ID, Metadata: meta}
}

// --- Self-write tracking (Private) ---

// recordSelfWrite remembers the checksum of bytes this repository just wrote,
// so the watcher can swallow the echo of its own Save.
func (r *Repository) recordSelfWrite(relPath string, data []byte) {
	sum := sha256.Sum256(data)
	r.mu.Lock()
	r.selfWrites[relPath] = hex.EncodeToString(sum[:])
	r.mu.Unlock()
}

func (r *Repository) clearSelfWrite(relPath string) {
	r.mu.Lock()
	delete(r.selfWrites, relPath)
	r.mu.Unlock()
}

// consumeSelfWrite reports whether the file at fullPath still holds bytes this
// repository wrote itself. The record is dropped either way; an author edit
// arriving later must produce a fresh event.
func (r *Repository) consumeSelfWrite(fullPath string) bool {
	rel, err := filepath.Rel(r.Path, fullPath)
	if err != nil {
		return false
	}
	relPath := filepath.ToSlash(rel)

	r.mu.RLock()
	want, ok := r.selfWrites[relPath]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	r.mu.Lock()
	delete(r.selfWrites, relPath)
	r.mu.Unlock()

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]) == want
}

// --- Transaction registry (Private) ---

func (r *Repository) registerTransaction(id string) {
	r.mu.Lock()
	r.transactions[id] = true
	r.mu.Unlock()
}

func (r *Repository) unregisterTransaction(id string) {
	r.mu.Lock()
	delete(r.transactions, id)
	r.mu.Unlock()
}

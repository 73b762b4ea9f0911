package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// Init initializes a site repository based on the provided configuration.
// The uri argument is adapter-specific: a directory path for "fs".
//
// It returns the configured core.Repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := parseOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// initFS builds the filesystem adapter from the option bag.
func initFS(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, _ := o.config["gitless"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	strict, _ := o.config["strict"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	ignore, _ := o.config["ignore"].([]string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only mode cannot damage anything, so the sandbox would only get
	// in the way of inspecting real sites.
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveSitePath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		switch {
		case isReadOnly:
			o.logger.Debug("running read-only, dev sandbox bypassed", "path", resolvedPath)
		case !devSafety:
			o.logger.Warn("dev sandbox disabled, operating on the real path", "path", resolvedPath)
		default:
			o.logger.Debug("dev sandbox active", "path", resolvedPath)
		}
	}

	if systemDir == "" {
		systemDir = ".folio"
	}

	// When versioning was not configured explicitly, detect it. A .git
	// directory means a versioned site. Without one, an existing system dir
	// marks a site that was deliberately created gitless; a fresh directory
	// defaults to git.
	if _, ok := o.config["gitless"]; !ok {
		if _, err := os.Stat(filepath.Join(resolvedPath, ".git")); err == nil {
			gitless = false
		} else if autoInit {
			if _, err := os.Stat(filepath.Join(resolvedPath, systemDir)); err == nil {
				gitless = true
			} else {
				gitless = false
			}
		} else {
			// Just opening a plain folder.
			gitless = true
		}
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	if o.logger != nil && useTemp {
		o.logger.Warn("site re-rooted into dev sandbox", "original_path", path, "resolved_path", resolvedPath)
	}

	serializers := fs.DefaultSerializers(strict)
	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		serializers[ext] = serializer
	}

	repo := fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     isReadOnly,
		Strict:       strict,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
		SystemDir:    systemDir,
		Ignore:       ignore,
		Serializers:  serializers,
	})

	return repo, nil
}

// Sync synchronizes the site at the given URI with its remote.
func Sync(uri string, opts ...Option) error {
	o := parseOptions(opts)

	var repo core.Repository
	if o.repository != nil {
		repo = o.repository
	} else {
		var err error
		switch o.adapter {
		case "fs":
			// Syncing a site that does not exist makes no sense, and
			// fs.NewRepository does no I/O until methods are called.
			o.config["must_exist"] = true
			repo, err = initFS(uri, o)
		default:
			return fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return err
		}
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("repository does not support synchronization")
	}

	return syncable.Sync(context.Background())
}

// Package input resolves what the obstacle commands read: a project file,
// a Lua script or a project stored in the library, and the trigger option
// overrides given through env and flags.
package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
	"github.com/louisbranch/obstacle-studio/internal/script"
	"github.com/louisbranch/obstacle-studio/internal/storage/sqlite"
)

// Source names one project to load.
type Source struct {
	// Path is a .json project, a .lua script, or a library ID.
	Path string
	// DBPath is the library consulted when Path is not a file.
	DBPath string
}

// Load reads the project named by src.
func Load(ctx context.Context, src Source, table *refdata.Table) (*project.Project, error) {
	path := strings.TrimSpace(src.Path)
	if path == "" {
		return nil, errors.New("input is required")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return script.LoadFile(path, table)
	case ".json":
		return project.Load(path)
	}
	if _, err := os.Stat(path); err == nil {
		return project.Load(path)
	}
	if strings.TrimSpace(src.DBPath) == "" {
		return nil, fmt.Errorf("input %q is not a file and no library is configured", path)
	}
	store, err := sqlite.Open(src.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer store.Close()
	return store.GetProject(ctx, path)
}

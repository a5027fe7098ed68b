// Package artifact owns the temporary preview/print files renderers produce.
// Every artifact is registered at creation and purged at process exit; early
// release after printing is best-effort.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry tracks live artifact files under a single temp directory.
type Registry struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	files map[string]struct{}
}

// NewRegistry ensures dir exists and returns an empty registry. An empty dir
// falls back to the OS temp directory.
func NewRegistry(dir string, log *zap.Logger) (*Registry, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "daftar")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Registry{dir: dir, log: log.Named("artifact"), files: make(map[string]struct{})}, nil
}

// Dir returns the artifact directory.
func (r *Registry) Dir() string { return r.dir }

// NewPath reserves a unique artifact path with the given extension and
// registers it for exit cleanup. Timestamp plus random suffix keeps paths
// unique without coordination.
func (r *Registry) NewPath(ext string) string {
	name := fmt.Sprintf("daftar-%s-%s.%s",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8], ext)
	p := filepath.Join(r.dir, name)
	r.mu.Lock()
	r.files[p] = struct{}{}
	r.mu.Unlock()
	return p
}

// Release deletes one artifact now, tolerating failure: a viewer may still
// hold the file open, in which case exit purge gets a second chance.
func (r *Registry) Release(path string) {
	r.mu.Lock()
	delete(r.files, path)
	r.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.log.Debug("artifact release deferred", zap.String("path", path), zap.Error(err))
	}
}

// PurgeAll deletes every artifact still registered. Called from the process
// shutdown hook.
func (r *Registry) PurgeAll() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.files))
	for p := range r.files {
		paths = append(paths, p)
	}
	r.files = make(map[string]struct{})
	r.mu.Unlock()

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			r.log.Warn("artifact purge failed", zap.String("path", p), zap.Error(err))
		}
	}
}

// Live returns the number of artifacts still registered.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

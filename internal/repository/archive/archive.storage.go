// FilePath: internal/repository/archive/archive.storage.go
package archive

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// Repo writes accepted upload batches to disk so batches can be audited
// or replayed after a pipeline bug. Layout: basePath/<deviceID>/<YYYY-MM-DD>/<batchID>.json
type Repo struct {
	basePath string
	enabled  bool
}

func NewArchiveRepository(cfg config.ArchiveConfig) (*Repo, error) {
	repo := &Repo{
		basePath: cfg.BasePath,
		enabled:  cfg.Enabled,
	}
	if repo.enabled {
		if err := createDirectoryIfNotExists(repo.basePath); err != nil {
			return nil, errors.NewInternalError("failed to create archive base directory", err)
		}
	}
	return repo, nil
}

func (r *Repo) Store(ctx context.Context, deviceID, batchID string, payload []byte) error {
	if !r.enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.NewInternalError("archive store canceled", err)
	}

	dir := filepath.Join(r.basePath, deviceID, time.Now().UTC().Format("2006-01-02"))
	if err := createDirectoryIfNotExists(dir); err != nil {
		return errors.NewInternalError("failed to create archive directory", err)
	}

	path := filepath.Join(dir, batchID+".json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return errors.NewInternalError("failed to write archive batch", err)
	}

	nuts.L.Debugf("[Archive] Stored batch %s for device %s (%d bytes)", batchID, deviceID, len(payload))
	return nil
}

func (r *Repo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	if !r.enabled {
		return nil
	}

	dir := filepath.Join(r.basePath, deviceID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return errors.NewInternalError("failed to delete device archive", err)
	}

	nuts.L.Infof("[Archive] Deleted archived batches for device %s", deviceID)
	return nil
}

// DeleteOldBatches removes archived batch files older than the cutoff and
// prunes day directories that end up empty.
func (r *Repo) DeleteOldBatches(cutoff time.Time) error {
	if !r.enabled {
		return nil
	}

	return filepath.Walk(r.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				nuts.L.Errorf("[Archive] Failed to remove old batch %s: %v", path, err)
			}
		}
		return nil
	})
}

func createDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	return nil
}

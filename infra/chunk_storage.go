package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tnqbao/gau-upload-service/config"
)

const (
	stagingSubdir = "temp_chunks"
	chunkPrefix   = "chunk_"
)

// ChunkStorage persists not-yet-merged chunks under per-upload staging
// directories. The directory listing is the only source of truth: counts are
// recomputed by scanning on every call, never cached, so they stay consistent
// with disk state across crashes and concurrent writers.
type ChunkStorage struct {
	Root string
}

// StagingDir describes one in-flight upload's staging directory.
type StagingDir struct {
	Key     string
	ModTime time.Time
}

func InitChunkStorage(cfg *config.EnvConfig) *ChunkStorage {
	root := filepath.Join(cfg.Upload.BaseDir, stagingSubdir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		panic(fmt.Sprintf("Failed to initialize chunk storage at %s: %v", root, err))
	}
	return &ChunkStorage{Root: root}
}

// StagingKey combines the authenticated identity with the client-supplied
// upload id so two users reusing the same id never share a staging directory.
func (s *ChunkStorage) StagingKey(userID, uploadID string) string {
	return fmt.Sprintf("%s_%s", userID, uploadID)
}

func (s *ChunkStorage) dir(key string) string {
	return filepath.Join(s.Root, key)
}

func (s *ChunkStorage) chunkPath(key string, index int) string {
	return filepath.Join(s.dir(key), fmt.Sprintf("%s%d", chunkPrefix, index))
}

// PutChunk writes one chunk, overwriting any prior chunk at the same index,
// and returns the number of chunk files now present. Write failures are
// returned as-is; the client is expected to retry the chunk.
func (s *ChunkStorage) PutChunk(key string, index int, src io.Reader) (int, error) {
	if err := os.MkdirAll(s.dir(key), 0o755); err != nil {
		return 0, fmt.Errorf("create staging dir: %w", err)
	}

	dst, err := os.Create(s.chunkPath(key, index))
	if err != nil {
		return 0, fmt.Errorf("create chunk file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return 0, fmt.Errorf("write chunk %d: %w", index, err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("close chunk %d: %w", index, err)
	}

	return s.ChunkCount(key), nil
}

// ChunkCount scans the staging directory and counts chunk files. Returns 0
// when the directory does not exist.
func (s *ChunkStorage) ChunkCount(key string) int {
	entries, err := os.ReadDir(s.dir(key))
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), chunkPrefix) {
			count++
		}
	}
	return count
}

func (s *ChunkStorage) Exists(key string) bool {
	info, err := os.Stat(s.dir(key))
	return err == nil && info.IsDir()
}

// MissingChunks returns the indices in 0..total-1 with no chunk file on disk.
func (s *ChunkStorage) MissingChunks(key string, total int) []int {
	var missing []int
	for i := 0; i < total; i++ {
		if _, err := os.Stat(s.chunkPath(key, i)); err != nil {
			missing = append(missing, i)
		}
	}
	return missing
}

// OpenChunk opens the chunk at index for reading. The caller closes it.
func (s *ChunkStorage) OpenChunk(key string, index int) (*os.File, error) {
	return os.Open(s.chunkPath(key, index))
}

// Cleanup removes the staging directory and everything in it. It is
// idempotent: cleaning a missing directory is not an error.
func (s *ChunkStorage) Cleanup(key string) error {
	return os.RemoveAll(s.dir(key))
}

// StagingDirs enumerates all staging directories with their modification
// times so an external sweeper can purge abandoned uploads.
func (s *ChunkStorage) StagingDirs() ([]StagingDir, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("scan staging root: %w", err)
	}

	var dirs []StagingDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, StagingDir{Key: entry.Name(), ModTime: info.ModTime()})
	}
	return dirs, nil
}

package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tnqbao/gau-upload-service/config"
)

// MediaLibrary owns the destination tree merged and directly-uploaded videos
// land in: <base>/Video Tutorial/Pending Video/<brand>/.
type MediaLibrary struct {
	Root string
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
}

func InitMediaLibrary(cfg *config.EnvConfig) *MediaLibrary {
	if cfg.Upload.BaseDir == "" {
		panic("Upload base directory is not configured")
	}
	return &MediaLibrary{Root: cfg.Upload.BaseDir}
}

// IsVideoExtension reports whether ext (including the dot, lowercased) is an
// accepted video container format.
func IsVideoExtension(ext string) bool {
	return videoExtensions[ext]
}

// SafeBaseName derives the destination base name {model}_{title}_{username},
// replacing characters that would split path components. No further
// sanitization happens here; callers validate the inputs.
func SafeBaseName(model, title, username string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_")
	return fmt.Sprintf("%s_%s_%s", replacer.Replace(model), replacer.Replace(title), username)
}

// PendingDir returns the brand's pending-video directory, creating it if
// needed.
func (m *MediaLibrary) PendingDir(brand string) (string, error) {
	dir := filepath.Join(m.Root, "Video Tutorial", "Pending Video", brand)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create pending dir: %w", err)
	}
	return dir, nil
}

// CreateExclusive opens a new destination file named base+ext inside the
// brand's pending directory. Names are claimed with O_EXCL so a concurrent
// merge can never silently overwrite an existing artifact; on collision the
// suffix _1, _2, ... advances until a create succeeds. The caller closes the
// returned file.
func (m *MediaLibrary) CreateExclusive(brand, base, ext string) (*os.File, string, error) {
	dir, err := m.PendingDir(brand)
	if err != nil {
		return nil, "", err
	}

	filename := base + ext
	for counter := 1; ; counter++ {
		f, err := os.OpenFile(filepath.Join(dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, filename, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create destination file: %w", err)
		}
		filename = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

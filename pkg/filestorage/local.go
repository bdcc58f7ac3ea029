package filestorage

import (
	"os"
	"path"
	"path/filepath"
)

// resolveKey derives the object key from the basename of the local file
// when no explicit key is given. The derived key is exactly the basename;
// there is no collision detection.
func resolveKey(localPath string, key string) string {
	if key != "" {
		return key
	}
	return filepath.Base(localPath)
}

// resolveLocalPath derives the destination path from the final segment of
// the key when no explicit path is given, and creates any missing
// intermediate directories. Directory creation is idempotent.
func resolveLocalPath(key string, localPath string) (string, error) {
	if localPath == "" {
		localPath = path.Base(key)
	}

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	return localPath, nil
}

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SaveFile copies r into folder under a fresh name keeping the extension of
// original. It returns the stored file name.
func SaveFile(r io.Reader, original, folder string) (string, error) {
	if err := EnsureDir(folder); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(SanitizeFilename(original)))
	filename := fmt.Sprintf("%s%s", GetUUID(), ext)
	filePath := filepath.Join(folder, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, r); err != nil {
		return "", err
	}
	return filename, nil
}

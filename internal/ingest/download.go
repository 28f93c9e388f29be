package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// downloadTimeout bounds the dataset fetch.
const downloadTimeout = 5 * time.Minute

// DownloadAndExtract fetches the dataset zip and extracts it into a fresh
// temp directory, returning the directory path. The caller owns cleanup via
// RemoveTempDir.
func DownloadAndExtract(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "movielens-*")
	if err != nil {
		return "", fmt.Errorf("ingest: create temp dir: %w", err)
	}

	zipPath := filepath.Join(tempDir, "dataset.zip")
	if err := downloadFile(url, zipPath); err != nil {
		RemoveTempDir(tempDir)
		return "", err
	}

	if err := extractZip(zipPath, tempDir); err != nil {
		RemoveTempDir(tempDir)
		return "", err
	}

	if err := os.Remove(zipPath); err != nil {
		return "", fmt.Errorf("ingest: remove archive: %w", err)
	}
	return tempDir, nil
}

// RemoveTempDir deletes an extraction directory, ignoring errors.
func RemoveTempDir(dir string) {
	_ = os.RemoveAll(dir)
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("ingest: download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingest: download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("ingest: write %s: %w", dest, err)
	}
	return nil
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("ingest: open archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(destDir, file.Name)

		// Guard against zip-slip entries.
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("ingest: archive entry escapes destination: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("ingest: create dir %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("ingest: create dir for %s: %w", target, err)
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("ingest: open entry %s: %w", file.Name, err)
		}

		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return fmt.Errorf("ingest: create %s: %w", target, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return fmt.Errorf("ingest: extract %s: %w", file.Name, err)
		}
	}
	return nil
}

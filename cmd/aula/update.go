package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/naveenspark/aula/internal/tui"
)

const (
	latestReleaseURL = "https://api.github.com/repos/naveenspark/aula/releases/latest"
	binaryName       = "aula"
	checksumsName    = "checksums.txt"
)

type ghRelease struct {
	TagName string    `json:"tag_name"`
	Assets  []ghAsset `json:"assets"`
}

type ghAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// tarballName is the release asset for the running platform.
func tarballName() string {
	return fmt.Sprintf("%s_%s_%s.tar.gz", binaryName, runtime.GOOS, runtime.GOARCH)
}

// assetURLs returns the download URLs of the platform tarball and the
// checksum list. Either may be empty.
func (r ghRelease) assetURLs(tarball string) (tarURL, sumsURL string) {
	for _, a := range r.Assets {
		switch a.Name {
		case tarball:
			tarURL = a.BrowserDownloadURL
		case checksumsName:
			sumsURL = a.BrowserDownloadURL
		}
	}
	return tarURL, sumsURL
}

func fetchRelease(hc *http.Client, url string) (ghRelease, error) {
	var release ghRelease
	resp, err := hc.Get(url)
	if err != nil {
		return release, fmt.Errorf("check for updates: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return release, fmt.Errorf("GitHub API returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return release, fmt.Errorf("parse release: %w", err)
	}
	return release, nil
}

func runUpdate() error {
	if version == "dev" {
		fmt.Println("compilación de desarrollo: instala una versión publicada para actualizar")
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("runUpdate: find executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("runUpdate: resolve symlinks: %w", err)
	}

	hc := &http.Client{Timeout: 15 * time.Second}
	release, err := fetchRelease(hc, latestReleaseURL)
	if err != nil {
		return fmt.Errorf("runUpdate: %w", err)
	}

	latest := "v" + strings.TrimPrefix(release.TagName, "v")
	current := "v" + strings.TrimPrefix(version, "v")
	if !tui.IsNewerVersion(latest, current) {
		printAlreadyCurrent(current)
		return nil
	}

	tarball := tarballName()
	tarURL, sumsURL := release.assetURLs(tarball)
	if tarURL == "" {
		return fmt.Errorf("runUpdate: no asset %s in release %s", tarball, release.TagName)
	}
	if sumsURL == "" {
		return fmt.Errorf("runUpdate: release %s has no %s, refusing to update", release.TagName, checksumsName)
	}

	tmpDir, err := os.MkdirTemp("", "aula-update-*")
	if err != nil {
		return fmt.Errorf("runUpdate: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	tarPath := filepath.Join(tmpDir, tarball)
	if err := downloadFile(hc, tarURL, tarPath); err != nil {
		return fmt.Errorf("runUpdate: download tarball: %w", err)
	}
	sumsPath := filepath.Join(tmpDir, checksumsName)
	if err := downloadFile(hc, sumsURL, sumsPath); err != nil {
		return fmt.Errorf("runUpdate: download checksums: %w", err)
	}
	if err := verifyChecksum(tarPath, sumsPath, tarball); err != nil {
		return fmt.Errorf("runUpdate: %w", err)
	}

	newBinary := filepath.Join(tmpDir, binaryName)
	if err := extractBinary(tarPath, newBinary); err != nil {
		return fmt.Errorf("runUpdate: extract: %w", err)
	}
	if err := replaceBinary(newBinary, execPath); err != nil {
		return err
	}

	// The running image is still the old build; let the new one print the result.
	if err := syscall.Exec(execPath, []string{binaryName, "--update-done", current, latest}, os.Environ()); err != nil {
		printUpdateSuccess(current, latest)
	}
	return nil
}

// replaceBinary stages src next to dst and renames it into place.
func replaceBinary(src, dst string) error {
	stage := dst + ".new"
	defer os.Remove(stage) //nolint:errcheck

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("runUpdate: open extracted binary: %w", err)
	}
	defer in.Close() //nolint:errcheck

	out, err := os.OpenFile(stage, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("sin permiso para escribir en %s, prueba con sudo", filepath.Dir(dst))
		}
		return fmt.Errorf("runUpdate: create staged binary: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck
		return fmt.Errorf("runUpdate: write staged binary: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("runUpdate: close staged binary: %w", err)
	}
	if err := os.Rename(stage, dst); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("sin permiso para reemplazar %s, prueba con sudo", dst)
		}
		return fmt.Errorf("runUpdate: replace binary: %w", err)
	}
	return nil
}

func downloadFile(hc *http.Client, url, dest string) error {
	resp, err := hc.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %s from %s", resp.Status, url)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()                   //nolint:errcheck
	const maxDownloadSize = 100 << 20 // 100 MB
	_, err = io.Copy(f, io.LimitReader(resp.Body, maxDownloadSize))
	return err
}

// verifyChecksum checks filePath against its sha256 line in a
// goreleaser-style checksums file.
func verifyChecksum(filePath, checksumsPath, fileName string) error {
	data, err := os.ReadFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("read checksums: %w", err)
	}
	var expected string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == fileName {
			expected = strings.ToLower(fields[0])
			break
		}
	}
	if expected == "" {
		return fmt.Errorf("no checksum found for %s", fileName)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash file: %w", err)
	}
	if actual := hex.EncodeToString(h.Sum(nil)); actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

var errBinaryMissing = errors.New(binaryName + " binary not found in tarball")

// extractBinary copies the first regular file named aula out of the tarball.
func extractBinary(tarballPath, dest string) error {
	f, err := os.Open(tarballPath)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close() //nolint:errcheck

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return errBinaryMissing
		}
		if err != nil {
			return fmt.Errorf("tar read: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != binaryName {
			continue
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return err
		}
		const maxBinarySize = 200 << 20 // 200 MB
		if _, err := io.Copy(out, io.LimitReader(tr, maxBinarySize)); err != nil {
			out.Close() //nolint:errcheck
			return err
		}
		return out.Close()
	}
}

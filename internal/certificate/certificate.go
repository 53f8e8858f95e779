// Package certificate downloads credential PDFs and writes them to disk.
package certificate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naveenspark/aula/pkg/client"
)

// Downloader fetches a certificate PDF.
type Downloader interface {
	DownloadCertificate(ctx context.Context, credentialID string) (*client.Download, error)
}

// ErrNotPDF is returned when the server answered with something other than a PDF.
var ErrNotPDF = errors.New("certificate response is not a PDF")

// FileName is the deterministic download name for a credential id.
func FileName(credentialID string) string {
	return "certificado-credencial-" + sanitize(credentialID) + ".pdf"
}

func sanitize(id string) string {
	id = strings.TrimSpace(id)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, id)
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Save writes data into dir under FileName and returns the path.
func Save(dir, credentialID string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("certificate.Save: %w", err)
	}
	path := filepath.Join(dir, FileName(credentialID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("certificate.Save: %w", err)
	}
	return path, nil
}

// Download fetches the certificate and saves it into dir.
func Download(ctx context.Context, d Downloader, dir, credentialID string) (string, error) {
	if strings.TrimSpace(credentialID) == "" {
		return "", errors.New("certificate.Download: empty credential id")
	}
	dl, err := d.DownloadCertificate(ctx, credentialID)
	if err != nil {
		return "", fmt.Errorf("certificate.Download: %w", err)
	}
	if !IsPDF(dl.Data) && !strings.HasPrefix(dl.ContentType, "application/pdf") {
		return "", fmt.Errorf("certificate.Download: %w (%s)", ErrNotPDF, dl.ContentType)
	}
	return Save(dir, credentialID, dl.Data)
}

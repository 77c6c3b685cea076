// Package uploader turns raw uploaded files into durable, publicly
// fetchable URLs. The boundary is a single interface so local disk and a
// remote media host are interchangeable.
package uploader

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Uploader stores one file under an owner-scoped folder and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string, folder string) (string, error)
}

// LocalUploader writes files to disk under BaseDir and returns URLs below
// BaseURL. The files are served by the router's /uploads/ file server.
type LocalUploader struct {
	BaseDir string // e.g. "./uploads"
	BaseURL string // e.g. "" or "https://example.com"
}

// NewLocalUploader creates a disk-backed uploader.
func NewLocalUploader(baseDir, baseURL string) *LocalUploader {
	return &LocalUploader{BaseDir: baseDir, BaseURL: baseURL}
}

// Upload saves the file under a generated name and returns its URL.
func (u *LocalUploader) Upload(ctx context.Context, r io.Reader, filename string, folder string) (string, error) {
	ext := filepath.Ext(filename)
	name := uuid.NewString() + ext

	dir := filepath.Join(u.BaseDir, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %v", err)
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return u.BaseURL + "/uploads/" + folder + "/" + name, nil
}

// UploadBatch attempts every file in order, one at a time. A failed upload
// is logged and its URL omitted; it never aborts the rest of the batch.
// Returns the URLs of the successful uploads and the errors of the failed
// ones, both in attempt order.
func UploadBatch(ctx context.Context, u Uploader, files []*multipart.FileHeader, folder string) ([]string, []error) {
	urls := make([]string, 0, len(files))
	var failures []error

	for _, header := range files {
		if header == nil || header.Size == 0 {
			continue
		}

		url, err := uploadOne(ctx, u, header, folder)
		if err != nil {
			logrus.WithError(err).WithField("filename", header.Filename).Error("Photo upload failed")
			failures = append(failures, fmt.Errorf("upload %q: %w", header.Filename, err))
			continue
		}
		urls = append(urls, url)
	}

	return urls, failures
}

func uploadOne(ctx context.Context, u Uploader, header *multipart.FileHeader, folder string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer file.Close()

	return u.Upload(ctx, file, header.Filename, folder)
}

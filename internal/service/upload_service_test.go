package service_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portfolio-api/internal/service"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func TestCVService_UploadAndDownload(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.CV.Upload(clientCtx(), "old.pdf", int64(len(pdfBytes)), bytes.NewReader(pdfBytes))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := f.svc.CV.Upload(clientCtx(), "Resume.PDF", int64(len(pdfBytes)), bytes.NewReader(pdfBytes))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second.MimeType != "application/pdf" || second.FileSize != int64(len(pdfBytes)) {
		t.Errorf("Unexpected CV %+v", second.CV)
	}
	if second.HumanSize != "59 B" {
		t.Errorf("Expected human size 59 B, got %s", second.HumanSize)
	}
	if f.repos.CV.CVs[first.ID].IsActive {
		t.Error("Expected the older CV to be deactivated")
	}

	cv, file, err := f.svc.CV.Download(clientCtx())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer file.Close()
	if cv.ID != second.ID || cv.FileName != "Resume.PDF" {
		t.Errorf("Expected the newest CV, got %+v", cv)
	}
	data, _ := io.ReadAll(file)
	if !bytes.Equal(data, pdfBytes) {
		t.Error("Downloaded bytes differ from the upload")
	}

	if err := f.svc.CV.Delete(clientCtx(), second.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.files.Root(), "cv", second.ID+".pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected the file to be removed, got %v", err)
	}
	if _, _, err := f.svc.CV.Download(clientCtx()); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound with no active CV, got %v", err)
	}
}

func TestCVService_Rejects(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.MaxCVSize = 100
	f := newFixtureWith(t, cfg)

	big := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte("x"), 200)...)

	tests := []struct {
		name     string
		fileName string
		size     int64
		body     []byte
	}{
		{"wrong extension", "cv.docx", int64(len(pdfBytes)), pdfBytes},
		{"declared too large", "cv.pdf", 101, pdfBytes},
		{"not a pdf", "cv.pdf", 20, []byte("just some plain text")},
		{"body larger than declared", "cv.pdf", 50, big},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CV.Upload(clientCtx(), tt.fileName, tt.size, bytes.NewReader(tt.body))
			var verr *service.ValidationErrors
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if verr.Errors[0].Field != "file" {
				t.Errorf("Expected error on file, got %s", verr.Errors[0].Field)
			}
		})
	}

	if len(f.repos.CV.CVs) != 0 {
		t.Errorf("Expected no CV rows, got %d", len(f.repos.CV.CVs))
	}
	entries, _ := os.ReadDir(filepath.Join(f.files.Root(), "cv"))
	if len(entries) != 0 {
		t.Errorf("Expected no stored files, got %d", len(entries))
	}
}

func TestMediaService_UploadImage(t *testing.T) {
	f := newFixture(t)

	upload, err := f.svc.Media.UploadImage(clientCtx(), "photo.png", int64(len(pngBytes)), bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(upload.Path, "media/") || !strings.HasSuffix(upload.Path, ".png") {
		t.Errorf("Unexpected path %s", upload.Path)
	}
	if upload.URL != "/uploads/"+upload.Path {
		t.Errorf("Unexpected URL %s", upload.URL)
	}
	if _, err := os.Stat(filepath.Join(f.files.Root(), filepath.FromSlash(upload.Path))); err != nil {
		t.Errorf("Expected the image on disk, got %v", err)
	}
}

func TestMediaService_RejectsNonImages(t *testing.T) {
	f := newFixture(t)

	// the extension is ignored, the content decides
	_, err := f.svc.Media.UploadImage(clientCtx(), "photo.png", int64(len(pdfBytes)), bytes.NewReader(pdfBytes))
	var verr *service.ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if !strings.Contains(verr.Errors[0].Message, "jpeg, png, gif, webp") {
		t.Errorf("Unexpected message %q", verr.Errors[0].Message)
	}

	_, err = f.svc.Media.UploadImage(clientCtx(), "photo.png", 6<<20, bytes.NewReader(pngBytes))
	if !errors.As(err, &verr) {
		t.Errorf("Expected validation error for an oversized image, got %v", err)
	}
}

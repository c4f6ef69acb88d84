package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	cvDir     = "cv"
	mimePDF   = "application/pdf"
	sniffSize = 512
)

// ErrUploadFailed is a storage failure while saving an upload
var ErrUploadFailed = errors.New("upload failed")

// cvService is the concrete implementation of CVService
type cvService struct {
	repo     repository.CVRepository
	files    FileStore
	maxSize  int64
	activity ActivityService
	now      func() time.Time
	log      zerolog.Logger
}

func newCVService(repo repository.CVRepository, deps Dependencies, cfg config.StorageConfig, activity ActivityService, log zerolog.Logger) *cvService {
	return &cvService{
		repo:     repo,
		files:    deps.Files,
		maxSize:  cfg.MaxCVSize,
		activity: activity,
		now:      deps.Now,
		log:      log.With().Str("service", "cv").Logger(),
	}
}

// sniff peeks at the head of r and reports its detected content type
func sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, err
	}
	return http.DetectContentType(head), br, nil
}

// capped stops reading one byte past max so oversized bodies are detectable
func capped(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return io.LimitReader(r, max+1)
}

// Upload stores a PDF as the new active CV
func (s *cvService) Upload(ctx context.Context, fileName string, size int64, r io.Reader) (*models.CVView, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, invalidField("file", "the file must be a PDF")
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, invalidField("file", fmt.Sprintf("the file may not be greater than %s", models.HumanSize(s.maxSize)))
	}
	mime, body, err := sniff(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if mime != mimePDF {
		return nil, invalidField("file", "the file must be a PDF")
	}

	id := uuid.New().String()
	rel := path.Join(cvDir, id+".pdf")
	written, err := s.files.Save(rel, capped(body, s.maxSize))
	if err != nil {
		s.log.Error().Err(err).Str("path", rel).Msg("Failed to store CV")
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		s.discard(rel)
		return nil, invalidField("file", fmt.Sprintf("the file may not be greater than %s", models.HumanSize(s.maxSize)))
	}

	now := s.now()
	cv := &models.CV{
		ID:        id,
		FilePath:  rel,
		FileName:  filepath.Base(fileName),
		MimeType:  mime,
		FileSize:  written,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateActive(ctx, cv); err != nil {
		s.discard(rel)
		return nil, fmt.Errorf("save cv: %w", err)
	}

	s.activity.Record(ctx, models.EntityCV, models.ActionCreated, cv.ID, nil, cv)
	s.log.Info().Str("cv_id", cv.ID).Int64("size", written).Msg("CV uploaded")
	return &models.CVView{CV: cv, HumanSize: models.HumanSize(cv.FileSize)}, nil
}

func (s *cvService) discard(rel string) {
	if err := s.files.Delete(rel); err != nil {
		s.log.Warn().Err(err).Str("path", rel).Msg("Failed to remove CV file")
	}
}

// List returns all uploaded CVs, newest first
func (s *cvService) List(ctx context.Context) ([]*models.CVView, error) {
	cvs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	views := make([]*models.CVView, 0, len(cvs))
	for _, cv := range cvs {
		views = append(views, &models.CVView{CV: cv, HumanSize: models.HumanSize(cv.FileSize)})
	}
	return views, nil
}

// Delete removes a CV row and its file
func (s *cvService) Delete(ctx context.Context, id string) error {
	if !validation.IsValidUUID(id) {
		return ErrNotFound
	}
	cv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get cv: %w", err)
	}
	if cv == nil {
		return ErrNotFound
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	if err := s.files.Delete(cv.FilePath); err != nil {
		s.log.Warn().Err(err).Str("path", cv.FilePath).Msg("Failed to remove CV file")
	}
	s.activity.Record(ctx, models.EntityCV, models.ActionDeleted, id, cv, nil)
	return nil
}

// Download opens the active CV file
func (s *cvService) Download(ctx context.Context) (*models.CV, *os.File, error) {
	cv, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("active cv: %w", err)
	}
	if cv == nil {
		return nil, nil, ErrNotFound
	}
	f, err := s.files.Open(cv.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Str("cv_id", cv.ID).Str("path", cv.FilePath).Msg("Active CV file is missing")
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open cv: %w", err)
	}
	return cv, f, nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/rs/zerolog"
)

const mediaDir = "media"

// imageTypes maps accepted sniffed content types to file extensions
var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// mediaService is the concrete implementation of MediaService
type mediaService struct {
	files   FileStore
	maxSize int64
	log     zerolog.Logger
}

func newMediaService(files FileStore, cfg config.StorageConfig, log zerolog.Logger) *mediaService {
	return &mediaService{
		files:   files,
		maxSize: cfg.MaxImageSize,
		log:     log.With().Str("service", "media").Logger(),
	}
}

// UploadImage stores an image under media/ and returns its public URL
func (s *mediaService) UploadImage(ctx context.Context, fileName string, size int64, r io.Reader) (*models.MediaUpload, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return nil, invalidField("image", fmt.Sprintf("the image may not be greater than %s", models.HumanSize(s.maxSize)))
	}
	mime, body, err := sniff(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	ext, ok := imageTypes[mime]
	if !ok {
		return nil, invalidField("image", "the image must be a file of type: jpeg, png, gif, webp")
	}

	rel := path.Join(mediaDir, uuid.New().String()+"."+ext)
	written, err := s.files.Save(rel, capped(body, s.maxSize))
	if err != nil {
		s.log.Error().Err(err).Str("path", rel).Str("file_name", fileName).Msg("Failed to store image")
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		if err := s.files.Delete(rel); err != nil {
			s.log.Warn().Err(err).Str("path", rel).Msg("Failed to remove oversized image")
		}
		return nil, invalidField("image", fmt.Sprintf("the image may not be greater than %s", models.HumanSize(s.maxSize)))
	}

	s.log.Info().Str("path", rel).Int64("size", written).Msg("Image uploaded")
	return &models.MediaUpload{URL: s.files.URL(rel), Path: rel}, nil
}

package mediasrv

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type mediaService struct {
	client            *cloudinary.Cloudinary
	galleryRepository repository.GalleryRepository

	meter          metric.Meter
	tracer         trace.Tracer
	log            *zap.Logger
	uploadCount    metric.Int64Counter
	uploadDuration metric.Float64Histogram
	errorCount     metric.Int64Counter
}

// UploadImage implements service.MediaServices. The file goes to a
// Cloudinary folder named after the section and the resulting secure
// URL is persisted alongside the caption.
func (s *mediaService) UploadImage(ctx context.Context, file *multipart.FileHeader, caption string, section domain.GallerySection) (*domain.GalleryImage, error) {
	ctx, span := s.tracer.Start(ctx, "service.UploadImage")
	defer span.End()

	start := time.Now()
	span.SetAttributes(
		attribute.String("media.section", string(section)),
		attribute.Int64("media.size", file.Size),
	)

	src, err := file.Open()
	if err != nil {
		return nil, s.fail(ctx, span, "open_error", fmt.Errorf("failed to open file: %w", err))
	}
	defer src.Close()

	uploadResult, err := s.client.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:    "resort-admin/" + string(section),
		PublicID:  generatePublicID(file.Filename),
		Overwrite: func(b bool) *bool { return &b }(true),
	})
	if err != nil {
		return nil, s.fail(ctx, span, "upload_error", fmt.Errorf("failed to upload to Cloudinary: %w", err))
	}

	image := &domain.GalleryImage{
		URL:     uploadResult.SecureURL,
		Caption: caption,
		Section: section,
	}
	if err := s.galleryRepository.Create(ctx, image); err != nil {
		return nil, s.fail(ctx, span, "repository_error", err)
	}

	s.uploadCount.Add(ctx, 1, metric.WithAttributes(attribute.String("section", string(section))))
	s.uploadDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	s.log.Info("Gallery image uploaded",
		zap.Uint64("image_id", image.ID),
		zap.String("section", string(section)),
		zap.Int64("size", file.Size),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Image uploaded")

	return image, nil
}

// ListImages implements service.MediaServices. An empty section lists
// every image.
func (s *mediaService) ListImages(ctx context.Context, section string) ([]domain.GalleryImage, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListImages")
	defer span.End()

	var images []domain.GalleryImage
	var err error
	if section == "" {
		images, err = s.galleryRepository.FindAll(ctx)
	} else {
		images, err = s.galleryRepository.FindBySection(ctx, domain.GallerySection(section))
	}
	if err != nil {
		return nil, s.fail(ctx, span, "repository_error", err)
	}

	span.SetStatus(codes.Ok, "Images listed")

	return images, nil
}

// DeleteImage implements service.MediaServices. Only the database row
// is removed; the Cloudinary asset stays as a recoverable backup.
func (s *mediaService) DeleteImage(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteImage")
	defer span.End()

	deleted, err := s.galleryRepository.Delete(ctx, id)
	if err != nil {
		return s.fail(ctx, span, "repository_error", err)
	}
	if !deleted {
		return s.fail(ctx, span, "not_found", common.ErrImageNotFound)
	}

	s.log.Info("Gallery image deleted",
		zap.Uint64("image_id", id),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Image deleted")

	return nil
}

func (s *mediaService) fail(ctx context.Context, span trace.Span, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)

	s.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", "media"),
		attribute.String("error_type", errorType),
	))

	s.log.Error("Media service operation failed",
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

// generatePublicID keeps the original basename and appends a timestamp
// so repeated uploads of the same file land as distinct assets.
func generatePublicID(filename string) string {
	base := filename[:len(filename)-len(filepath.Ext(filename))]
	return fmt.Sprintf("%s_%d", base, time.Now().Unix())
}

func NewMediaService(
	client *cloudinary.Cloudinary,
	galleryRepository repository.GalleryRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.MediaServices {
	uploadCount, _ := meter.Int64Counter(
		"service.media.uploads",
		metric.WithDescription("Number of gallery images uploaded"),
		metric.WithUnit("{image}"),
	)

	uploadDuration, _ := meter.Float64Histogram(
		"service.media.upload.duration",
		metric.WithDescription("Duration of gallery image uploads"),
		metric.WithUnit("ms"),
	)

	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)

	return &mediaService{
		client:            client,
		galleryRepository: galleryRepository,

		meter:          meter,
		tracer:         tracer,
		log:            log,
		uploadCount:    uploadCount,
		uploadDuration: uploadDuration,
		errorCount:     errorCount,
	}
}

package galleryhandler

import (
	"context"
	"errors"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxImageSize = 10 * 1024 * 1024

type GalleryHandler struct {
	mediaService    service.MediaServices
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewGalleryHandler(
	mediaService service.MediaServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *GalleryHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request duration metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &GalleryHandler{
		mediaService:    mediaService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

// UploadImage accepts a multipart form with the image file, an optional
// caption and the target section.
func (h *GalleryHandler) UploadImage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.UploadImage")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	file, err := c.FormFile("image")
	if err != nil {
		h.errorCount.Add(ctx, 1)
		span.RecordError(err)
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Image file is required")
	}
	if file.Size > maxImageSize {
		h.errorCount.Add(ctx, 1)
		return common.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "Image exceeds the 10MB limit")
	}

	req := dto.UploadGalleryRequest{
		Image:   file,
		Caption: c.FormValue("caption"),
		Section: c.FormValue("section", string(domain.SectionGallery)),
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorCount.Add(ctx, 1)
		span.RecordError(err)
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed")
	}

	span.SetAttributes(
		attribute.String("media.section", req.Section),
		attribute.Int64("media.size", file.Size),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	image, err := h.mediaService.UploadImage(serviceCtx, file, req.Caption, domain.GallerySection(req.Section))
	if err != nil {
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		span.RecordError(err)
		h.log.Error("Image upload failed",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload image")
	}

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	images := dto.GalleryImagesFromEntity([]domain.GalleryImage{*image})

	return c.Status(fiber.StatusCreated).JSON(images[0])
}

// ListImages is public; the section query parameter narrows the result
// to the gallery or the construction progress feed.
func (h *GalleryHandler) ListImages(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListImages")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	section := c.Query("section")
	if section != "" {
		switch domain.GallerySection(section) {
		case domain.SectionGallery, domain.SectionProgress:
		default:
			h.errorCount.Add(ctx, 1)
			return common.ErrorResponse(c, fiber.StatusBadRequest, "Invalid section")
		}
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	images, err := h.mediaService.ListImages(serviceCtx, section)
	if err != nil {
		h.errorCount.Add(ctx, 1)
		span.RecordError(err)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	return c.Status(fiber.StatusOK).JSON(dto.GalleryImagesFromEntity(images))
}

func (h *GalleryHandler) DeleteImage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.DeleteImage")
	defer span.End()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		h.errorCount.Add(ctx, 1)
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.mediaService.DeleteImage(serviceCtx, uint64(id)); err != nil {
		h.errorCount.Add(ctx, 1)
		span.RecordError(err)
		if errors.Is(err, common.ErrImageNotFound) {
			return common.ErrorResponse(c, fiber.StatusNotFound, "Gallery image not found")
		}
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Gallery image deleted"})
}

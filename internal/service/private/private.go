package privatesrv

import (
	"context"
	"fmt"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"
	"github.com/kiritara/resort-admin/pkg/password"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tokenTTL = 72 * time.Hour

type privateService struct {
	adminRepository repository.AdminRepository
	jwtSecret       []byte

	meter        metric.Meter
	tracer       trace.Tracer
	log          *zap.Logger
	loginCount   metric.Int64Counter
	loginFailure metric.Int64Counter
}

// Login implements service.PrivateServices. An unknown email and a bad
// password return the same common.ErrInvalidCredentials so the response
// does not reveal which part was wrong.
func (s *privateService) Login(ctx context.Context, data dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.Login")
	defer span.End()

	admin, err := s.adminRepository.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, s.fail(ctx, span, "repository_error", err)
	}
	if admin == nil {
		return nil, s.fail(ctx, span, "unknown_email", common.ErrInvalidCredentials)
	}

	if !password.Verify(data.Password, admin.PasswordHash) {
		return nil, s.fail(ctx, span, "bad_password", common.ErrInvalidCredentials)
	}

	now := time.Now()
	claims := &domain.JwtCustomClaims{
		UserID: admin.ID,
		Role:   domain.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "resort-admin",
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, s.fail(ctx, span, "sign_error", fmt.Errorf("failed to sign token: %w", err))
	}

	s.loginCount.Add(ctx, 1)
	s.log.Info("Admin logged in",
		zap.Uint64("admin_id", admin.ID),
		zap.String("email", admin.Email),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Login succeeded")

	return &dto.LoginResponse{Token: signed}, nil
}

func (s *privateService) fail(ctx context.Context, span trace.Span, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)

	s.loginFailure.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error_type", errorType),
	))

	s.log.Warn("Login failed",
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewPrivateService(
	adminRepository repository.AdminRepository,
	jwtSecret string,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.PrivateServices {
	loginCount, _ := meter.Int64Counter(
		"service.login.count",
		metric.WithDescription("Number of successful admin logins"),
		metric.WithUnit("{login}"),
	)

	loginFailure, _ := meter.Int64Counter(
		"service.login.failures",
		metric.WithDescription("Number of failed admin logins"),
		metric.WithUnit("{login}"),
	)

	return &privateService{
		adminRepository: adminRepository,
		jwtSecret:       []byte(jwtSecret),

		meter:        meter,
		tracer:       tracer,
		log:          log,
		loginCount:   loginCount,
		loginFailure: loginFailure,
	}
}

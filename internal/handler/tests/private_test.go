package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kiritara/resort-admin/internal/dto"
	privatehandler "github.com/kiritara/resort-admin/internal/handler/private"
	"github.com/kiritara/resort-admin/middleware"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"go.opentelemetry.io/otel/metric"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type PrivateHandlerTestSuite struct {
	suite.Suite
	app                *fiber.App
	handler            *privatehandler.PrivateHandler
	mockPrivateService *MockPrivateService

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *PrivateHandlerTestSuite) SetupTest() {
	suite.mockPrivateService = &MockPrivateService{}

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-private-handler-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-private-handler-meter")

	suite.handler = privatehandler.NewPrivateHandler(
		suite.mockPrivateService,
		true, // dev mode so the cookie is not marked Secure
		suite.meter,
		suite.tracer,
		suite.log,
	)

	suite.app = fiber.New()
	suite.app.Post("/auth/login", suite.handler.Login)
	suite.app.Post("/auth/logout", suite.handler.Logout)
}

func (suite *PrivateHandlerTestSuite) TestLogin_Success() {
	suite.mockPrivateService.MockLoginResult = &dto.LoginResponse{Token: "signed.jwt.token"}

	body := `{"email": "admin@kiritara.com", "password": "correct-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var loginResp dto.LoginResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	assert.Equal(suite.T(), "signed.jwt.token", loginResp.Token)

	// The token must also land in the HTTP-only auth cookie.
	var authCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AuthCookie {
			authCookie = c
		}
	}
	assert.NotNil(suite.T(), authCookie)
	assert.Equal(suite.T(), "signed.jwt.token", authCookie.Value)
	assert.True(suite.T(), authCookie.HttpOnly)
}

func (suite *PrivateHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockPrivateService.MockError = common.ErrInvalidCredentials

	body := `{"email": "admin@kiritara.com", "password": "wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *PrivateHandlerTestSuite) TestLogin_ValidationFailure() {
	body := `{"email": "not-an-email", "password": ""}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

func (suite *PrivateHandlerTestSuite) TestLogout_ClearsCookie() {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	resp, _ := suite.app.Test(req)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var authCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AuthCookie {
			authCookie = c
		}
	}
	assert.NotNil(suite.T(), authCookie)
	assert.Empty(suite.T(), authCookie.Value)
}

func TestPrivateHandlerSuite(t *testing.T) {
	suite.Run(t, new(PrivateHandlerTestSuite))
}

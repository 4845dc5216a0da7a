package common

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrPlanNotFound             = errors.New("membership plan not found")
	ErrInvalidInstallmentAmount = errors.New("plan installment amount must be positive")
	ErrInvestorNotFound         = errors.New("investor not found")
	ErrInstallmentNotFound      = errors.New("installment not found")
	ErrEmailExists              = errors.New("investor with this email already exists")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrEmptyPaymentMode         = errors.New("payment mode must not be empty")
	ErrImageNotFound            = errors.New("gallery image not found")
	ErrInvalidBackup            = errors.New("backup document is invalid")
)

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func SuccessResponse(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

package dto

import (
	"mime/multipart"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PlanRequest struct {
	Name                 string   `json:"name" validate:"required"`
	TotalAmount          int64    `json:"total_amount" validate:"required,gt=0"`
	DownpaymentPercent   uint8    `json:"downpayment_percent" validate:"lte=100"`
	MonthlyInstallment   int64    `json:"monthly_installment" validate:"required,gt=0"`
	QuarterlyInstallment int64    `json:"quarterly_installment" validate:"required,gt=0"`
	Benefits             []string `json:"benefits"`
	Duration             string   `json:"duration"`
	ROI                  string   `json:"roi"`
}

type CreateInvestorRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,min=7,max=20"`
	PlanID          uint64 `json:"plan_id" validate:"required"`
	DownpaymentPaid int64  `json:"downpayment_paid" validate:"gte=0"`
	InstallmentType string `json:"installment_type" validate:"required,oneof=monthly quarterly"`
	JoinDate        string `json:"join_date" validate:"required,datetime=2006-01-02"`
}

type UpdateInvestorRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=20"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

// MarkPaidRequest carries the payment details recorded against an
// installment. The payment-mode enumeration is an API-surface concern;
// the installment service only requires a non-empty mode.
type MarkPaidRequest struct {
	PaymentMode string `json:"payment_mode" validate:"required,oneof=bank_transfer cash cheque upi credit_card debit_card"`
	Remarks     string `json:"remarks"`
	PaidDate    string `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
}

type UploadGalleryRequest struct {
	Image   *multipart.FileHeader `form:"image" validate:"required"`
	Caption string                `form:"caption"`
	Section string                `form:"section" validate:"required,oneof=gallery progress"`
}

// --- Mapping --- //

func PlanToEntity(req PlanRequest) *domain.MembershipPlan {
	return &domain.MembershipPlan{
		Name:                 req.Name,
		TotalAmount:          req.TotalAmount,
		DownpaymentPercent:   req.DownpaymentPercent,
		MonthlyInstallment:   req.MonthlyInstallment,
		QuarterlyInstallment: req.QuarterlyInstallment,
		Benefits:             req.Benefits,
		Duration:             req.Duration,
		ROI:                  req.ROI,
	}
}

func CreateInvestorToEntity(req CreateInvestorRequest) *domain.Investor {
	joinDate, _ := time.Parse("2006-01-02", req.JoinDate)
	return &domain.Investor{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		PlanID:          req.PlanID,
		DownpaymentPaid: req.DownpaymentPaid,
		InstallmentType: domain.InstallmentType(req.InstallmentType),
		JoinDate:        joinDate,
		Status:          domain.InvestorActive,
	}
}

func UpdateInvestorToEntity(req UpdateInvestorRequest) domain.Investor {
	return domain.Investor{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   domain.InvestorStatus(req.Status),
	}
}

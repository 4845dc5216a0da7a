package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	AdminRole Role = "admin"
)

// InstallmentType is the cadence between scheduled installments.
type InstallmentType string

const (
	InstallmentMonthly   InstallmentType = "monthly"
	InstallmentQuarterly InstallmentType = "quarterly"
)

// Months returns the number of calendar months in one cadence step.
func (t InstallmentType) Months() int {
	if t == InstallmentQuarterly {
		return 3
	}
	return 1
}

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

type InvestorStatus string

const (
	InvestorActive   InvestorStatus = "active"
	InvestorInactive InvestorStatus = "inactive"
)

// MembershipPlan is immutable reference data for a membership tier.
// Monthly and quarterly installment amounts are configured independently
// and are not derived from TotalAmount at read time.
type MembershipPlan struct {
	ID                   uint64
	Name                 string
	TotalAmount          int64
	DownpaymentPercent   uint8
	MonthlyInstallment   int64
	QuarterlyInstallment int64
	Benefits             []string
	Duration             string
	ROI                  string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Investor holds a signed-up investor. TotalInvestment is a snapshot of
// the plan's TotalAmount taken at creation time; later plan edits never
// change an investor's committed amount.
type Investor struct {
	ID              uint64
	FullName        string
	Email           string
	Phone           string
	PlanID          uint64
	TotalInvestment int64
	DownpaymentPaid int64
	InstallmentType InstallmentType
	JoinDate        time.Time
	Status          InvestorStatus
	NextDueDate     *time.Time
	TotalPaid       int64
	PendingAmount   int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Installments []Installment
}

// Installment is one scheduled partial payment of an investor's total
// committed investment. PaidDate, PaymentMode and Remarks are set only
// once the installment is paid.
type Installment struct {
	ID          uint64
	InvestorID  uint64
	Amount      int64
	DueDate     time.Time
	Status      InstallmentStatus
	PaidDate    *time.Time
	PaymentMode string
	Remarks     string
}

// Payment is an append-only ledger entry created when an installment is
// marked paid. Amount is copied from the installment at payment time.
type Payment struct {
	ID            uint64
	InvestorID    uint64
	InstallmentID uint64
	Amount        int64
	PaymentDate   time.Time
	PaymentMode   string
	Remarks       string
}

// PaymentDetails is the input recorded when an installment is marked
// paid. PaidDate defaults to today when nil.
type PaymentDetails struct {
	PaymentMode string
	Remarks     string
	PaidDate    *time.Time
}

type Admin struct {
	ID           uint64
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type GallerySection string

const (
	SectionGallery  GallerySection = "gallery"
	SectionProgress GallerySection = "progress"
)

type GalleryImage struct {
	ID        uint64
	URL       string
	Caption   string
	Section   GallerySection
	CreatedAt time.Time
}

type JwtCustomClaims struct {
	UserID uint64 `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

type Params struct {
	Status string
	Page   int
	Limit  int
}

type Paginated struct {
	Data       any
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// InstallmentStats aggregates the tracker's counter cards.
type InstallmentStats struct {
	Total         int64
	Pending       int64
	Paid          int64
	Overdue       int64
	TotalAmount   int64
	PaidAmount    int64
	PendingAmount int64
}

// RecentInvestor is a dashboard row for the latest signups.
type RecentInvestor struct {
	Name     string
	PlanName string
	Amount   int64
	JoinDate time.Time
}

// UpcomingPayment is a dashboard row for the next pending installments.
type UpcomingPayment struct {
	InvestorName string
	Amount       int64
	DueDate      time.Time
	Status       InstallmentStatus
}

// DashboardSummary mirrors the admin dashboard aggregation.
type DashboardSummary struct {
	TotalInvestors      int64
	TotalInvestment     int64
	PendingInstallments int64
	OverduePayments     int64
	RecentInvestors     []RecentInvestor
	UpcomingPayments    []UpcomingPayment
}

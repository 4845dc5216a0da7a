package model

import (
	"time"

	"gorm.io/gorm"
)

// MembershipPlan represents the membership_plans table
type MembershipPlan struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	TotalAmount          int64     `gorm:"not null" json:"total_amount"`
	DownpaymentPercent   uint8     `gorm:"not null" json:"downpayment_percent"`
	MonthlyInstallment   int64     `gorm:"not null" json:"monthly_installment"`
	QuarterlyInstallment int64     `gorm:"not null" json:"quarterly_installment"`
	Benefits             []string  `gorm:"serializer:json" json:"benefits"`
	Duration             string    `gorm:"type:varchar(50)" json:"duration"`
	ROI                  string    `gorm:"type:varchar(50)" json:"roi"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Investors []Investor `gorm:"foreignKey:PlanID" json:"investors,omitempty"`
}

// InstallmentType enum for the installment cadence
type InstallmentType string

const (
	InstallmentMonthly   InstallmentType = "monthly"
	InstallmentQuarterly InstallmentType = "quarterly"
)

// InvestorStatus enum for investor lifecycle
type InvestorStatus string

const (
	InvestorActive   InvestorStatus = "active"
	InvestorInactive InvestorStatus = "inactive"
)

// Investor represents the investors table
type Investor struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName        string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email           string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	PlanID          uint64          `gorm:"not null" json:"plan_id"`
	TotalInvestment int64           `gorm:"not null" json:"total_investment"`
	DownpaymentPaid int64           `gorm:"not null" json:"downpayment_paid"`
	InstallmentType InstallmentType `gorm:"type:enum('monthly','quarterly');not null" json:"installment_type"`
	JoinDate        time.Time       `gorm:"type:date;not null" json:"join_date"`
	Status          InvestorStatus  `gorm:"type:enum('active','inactive');default:'active';not null" json:"status"`
	NextDueDate     *time.Time      `gorm:"type:date" json:"next_due_date,omitempty"`
	TotalPaid       int64           `gorm:"not null;default:0" json:"total_paid"`
	PendingAmount   int64           `gorm:"not null;default:0" json:"pending_amount"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Plan         MembershipPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:RESTRICT" json:"plan,omitempty"`
	Installments []Installment  `gorm:"foreignKey:InvestorID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
	Payments     []Payment      `gorm:"foreignKey:InvestorID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// InstallmentStatus enum for installment state
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// Installment represents the installments table
type Installment struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	InvestorID  uint64            `gorm:"not null;index" json:"investor_id"`
	Amount      int64             `gorm:"not null" json:"amount"`
	DueDate     time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	Status      InstallmentStatus `gorm:"type:enum('pending','paid','overdue');default:'pending';not null" json:"status"`
	PaidDate    *time.Time        `gorm:"type:date" json:"paid_date,omitempty"`
	PaymentMode string            `gorm:"type:varchar(50)" json:"payment_mode,omitempty"`
	Remarks     string            `gorm:"type:varchar(255)" json:"remarks,omitempty"`

	Investor Investor `gorm:"foreignKey:InvestorID;constraint:OnDelete:CASCADE" json:"investor,omitempty"`
}

// Payment represents the payments table (append-only ledger)
type Payment struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	InvestorID    uint64    `gorm:"not null;index" json:"investor_id"`
	InstallmentID uint64    `gorm:"not null;index" json:"installment_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	PaymentDate   time.Time `gorm:"type:date;not null" json:"payment_date"`
	PaymentMode   string    `gorm:"type:varchar(50);not null" json:"payment_mode"`
	Remarks       string    `gorm:"type:varchar(255)" json:"remarks"`

	Investor Investor `gorm:"foreignKey:InvestorID;constraint:OnDelete:CASCADE" json:"investor,omitempty"`
}

// Admin represents the admins table
type Admin struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GallerySection enum for site image sections
type GallerySection string

const (
	SectionGallery  GallerySection = "gallery"
	SectionProgress GallerySection = "progress"
)

// GalleryImage represents the gallery_images table
type GalleryImage struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string         `gorm:"type:varchar(255);not null" json:"url"`
	Caption   string         `gorm:"type:varchar(255)" json:"caption"`
	Section   GallerySection `gorm:"type:enum('gallery','progress');default:'gallery';not null" json:"section"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (MembershipPlan) TableName() string {
	return "membership_plans"
}

func (Investor) TableName() string {
	return "investors"
}

func (Installment) TableName() string {
	return "installments"
}

func (Payment) TableName() string {
	return "payments"
}

func (Admin) TableName() string {
	return "admins"
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}

// AutoMigrate runs the schema migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&MembershipPlan{},
		&Investor{},
		&Installment{},
		&Payment{},
		&Admin{},
		&GalleryImage{},
	)
}

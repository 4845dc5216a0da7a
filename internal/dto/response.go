package dto

import (
	"github.com/kiritara/resort-admin/internal/domain"
)

const dateLayout = "2006-01-02"

type LoginResponse struct {
	Token string `json:"token"`
}

type PlanResponse struct {
	ID                   uint64   `json:"id"`
	Name                 string   `json:"name"`
	TotalAmount          int64    `json:"total_amount"`
	DownpaymentPercent   uint8    `json:"downpayment_percent"`
	MonthlyInstallment   int64    `json:"monthly_installment"`
	QuarterlyInstallment int64    `json:"quarterly_installment"`
	Benefits             []string `json:"benefits"`
	Duration             string   `json:"duration"`
	ROI                  string   `json:"roi"`
}

type InvestorResponse struct {
	ID              uint64                `json:"id"`
	FullName        string                `json:"full_name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone,omitempty"`
	PlanID          uint64                `json:"plan_id"`
	TotalInvestment int64                 `json:"total_investment"`
	DownpaymentPaid int64                 `json:"downpayment_paid"`
	InstallmentType string                `json:"installment_type"`
	JoinDate        string                `json:"join_date"`
	Status          string                `json:"status"`
	NextDueDate     string                `json:"next_due_date,omitempty"`
	TotalPaid       int64                 `json:"total_paid"`
	PendingAmount   int64                 `json:"pending_amount"`
	Installments    []InstallmentResponse `json:"installments,omitempty"`
}

type InstallmentResponse struct {
	ID          uint64 `json:"id"`
	InvestorID  uint64 `json:"investor_id"`
	Amount      int64  `json:"amount"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	PaidDate    string `json:"paid_date,omitempty"`
	PaymentMode string `json:"payment_mode,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

type PaymentResponse struct {
	ID            uint64 `json:"id"`
	InvestorID    uint64 `json:"investor_id"`
	InstallmentID uint64 `json:"installment_id"`
	Amount        int64  `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	PaymentMode   string `json:"payment_mode"`
	Remarks       string `json:"remarks,omitempty"`
}

type InstallmentStatsResponse struct {
	Total         int64 `json:"total"`
	Pending       int64 `json:"pending"`
	Paid          int64 `json:"paid"`
	Overdue       int64 `json:"overdue"`
	TotalAmount   int64 `json:"total_amount"`
	PaidAmount    int64 `json:"paid_amount"`
	PendingAmount int64 `json:"pending_amount"`
}

type RecentInvestorResponse struct {
	Name     string `json:"name"`
	PlanName string `json:"plan"`
	Amount   int64  `json:"amount"`
	JoinDate string `json:"join_date"`
}

type UpcomingPaymentResponse struct {
	Investor string `json:"investor"`
	Amount   int64  `json:"amount"`
	DueDate  string `json:"due_date"`
	Status   string `json:"status"`
}

type DashboardResponse struct {
	TotalInvestors      int64                     `json:"total_investors"`
	TotalInvestment     int64                     `json:"total_investment"`
	PendingInstallments int64                     `json:"pending_installments"`
	OverduePayments     int64                     `json:"overdue_payments"`
	RecentInvestors     []RecentInvestorResponse  `json:"recent_investors"`
	UpcomingPayments    []UpcomingPaymentResponse `json:"upcoming_payments"`
}

type GalleryImageResponse struct {
	ID      uint64 `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Section string `json:"section"`
}

// --- Mapping --- //

func PlanFromEntity(data *domain.MembershipPlan) PlanResponse {
	return PlanResponse{
		ID:                   data.ID,
		Name:                 data.Name,
		TotalAmount:          data.TotalAmount,
		DownpaymentPercent:   data.DownpaymentPercent,
		MonthlyInstallment:   data.MonthlyInstallment,
		QuarterlyInstallment: data.QuarterlyInstallment,
		Benefits:             data.Benefits,
		Duration:             data.Duration,
		ROI:                  data.ROI,
	}
}

func PlansFromEntity(data []domain.MembershipPlan) []PlanResponse {
	responses := make([]PlanResponse, len(data))
	for i := range data {
		responses[i] = PlanFromEntity(&data[i])
	}

	return responses
}

func InvestorFromEntity(data *domain.Investor) InvestorResponse {
	resp := InvestorResponse{
		ID:              data.ID,
		FullName:        data.FullName,
		Email:           data.Email,
		Phone:           data.Phone,
		PlanID:          data.PlanID,
		TotalInvestment: data.TotalInvestment,
		DownpaymentPaid: data.DownpaymentPaid,
		InstallmentType: string(data.InstallmentType),
		JoinDate:        data.JoinDate.Format(dateLayout),
		Status:          string(data.Status),
		TotalPaid:       data.TotalPaid,
		PendingAmount:   data.PendingAmount,
		Installments:    InstallmentsFromEntity(data.Installments),
	}
	if data.NextDueDate != nil {
		resp.NextDueDate = data.NextDueDate.Format(dateLayout)
	}

	return resp
}

func InvestorsFromEntity(data []domain.Investor) []InvestorResponse {
	responses := make([]InvestorResponse, len(data))
	for i := range data {
		responses[i] = InvestorFromEntity(&data[i])
	}

	return responses
}

func InstallmentFromEntity(data *domain.Installment) InstallmentResponse {
	resp := InstallmentResponse{
		ID:          data.ID,
		InvestorID:  data.InvestorID,
		Amount:      data.Amount,
		DueDate:     data.DueDate.Format(dateLayout),
		Status:      string(data.Status),
		PaymentMode: data.PaymentMode,
		Remarks:     data.Remarks,
	}
	if data.PaidDate != nil {
		resp.PaidDate = data.PaidDate.Format(dateLayout)
	}

	return resp
}

func InstallmentsFromEntity(data []domain.Installment) []InstallmentResponse {
	if len(data) == 0 {
		return nil
	}

	responses := make([]InstallmentResponse, len(data))
	for i := range data {
		responses[i] = InstallmentFromEntity(&data[i])
	}

	return responses
}

func PaymentsFromEntity(data []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(data))
	for i, p := range data {
		responses[i] = PaymentResponse{
			ID:            p.ID,
			InvestorID:    p.InvestorID,
			InstallmentID: p.InstallmentID,
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate.Format(dateLayout),
			PaymentMode:   p.PaymentMode,
			Remarks:       p.Remarks,
		}
	}

	return responses
}

func StatsFromEntity(data *domain.InstallmentStats) InstallmentStatsResponse {
	return InstallmentStatsResponse{
		Total:         data.Total,
		Pending:       data.Pending,
		Paid:          data.Paid,
		Overdue:       data.Overdue,
		TotalAmount:   data.TotalAmount,
		PaidAmount:    data.PaidAmount,
		PendingAmount: data.PendingAmount,
	}
}

func DashboardFromEntity(data *domain.DashboardSummary) DashboardResponse {
	recent := make([]RecentInvestorResponse, len(data.RecentInvestors))
	for i, r := range data.RecentInvestors {
		recent[i] = RecentInvestorResponse{
			Name:     r.Name,
			PlanName: r.PlanName,
			Amount:   r.Amount,
			JoinDate: r.JoinDate.Format(dateLayout),
		}
	}

	upcoming := make([]UpcomingPaymentResponse, len(data.UpcomingPayments))
	for i, u := range data.UpcomingPayments {
		upcoming[i] = UpcomingPaymentResponse{
			Investor: u.InvestorName,
			Amount:   u.Amount,
			DueDate:  u.DueDate.Format(dateLayout),
			Status:   string(u.Status),
		}
	}

	return DashboardResponse{
		TotalInvestors:      data.TotalInvestors,
		TotalInvestment:     data.TotalInvestment,
		PendingInstallments: data.PendingInstallments,
		OverduePayments:     data.OverduePayments,
		RecentInvestors:     recent,
		UpcomingPayments:    upcoming,
	}
}

func GalleryImagesFromEntity(data []domain.GalleryImage) []GalleryImageResponse {
	responses := make([]GalleryImageResponse, len(data))
	for i, g := range data {
		responses[i] = GalleryImageResponse{
			ID:      g.ID,
			URL:     g.URL,
			Caption: g.Caption,
			Section: string(g.Section),
		}
	}

	return responses
}

// ToPaginated wraps already-mapped rows with pagination metadata.
func ToPaginated(rows any, total int64, page, limit, totalPages int) *domain.Paginated {
	return &domain.Paginated{
		Data:       rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

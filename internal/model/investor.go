package model

import (
	"github.com/kiritara/resort-admin/internal/domain"
)

func InvestorFromEntity(data *domain.Investor) Investor {
	return Investor{
		ID:              data.ID,
		FullName:        data.FullName,
		Email:           data.Email,
		Phone:           data.Phone,
		PlanID:          data.PlanID,
		TotalInvestment: data.TotalInvestment,
		DownpaymentPaid: data.DownpaymentPaid,
		InstallmentType: InstallmentType(data.InstallmentType),
		JoinDate:        data.JoinDate,
		Status:          InvestorStatus(data.Status),
		NextDueDate:     data.NextDueDate,
		TotalPaid:       data.TotalPaid,
		PendingAmount:   data.PendingAmount,
	}
}

func InvestorsFromEntity(data []domain.Investor) []Investor {
	rows := make([]Investor, len(data))
	for i := range data {
		rows[i] = InvestorFromEntity(&data[i])
	}

	return rows
}

func InvestorToEntity(data Investor) *domain.Investor {
	return &domain.Investor{
		ID:              data.ID,
		FullName:        data.FullName,
		Email:           data.Email,
		Phone:           data.Phone,
		PlanID:          data.PlanID,
		TotalInvestment: data.TotalInvestment,
		DownpaymentPaid: data.DownpaymentPaid,
		InstallmentType: domain.InstallmentType(data.InstallmentType),
		JoinDate:        data.JoinDate,
		Status:          domain.InvestorStatus(data.Status),
		NextDueDate:     data.NextDueDate,
		TotalPaid:       data.TotalPaid,
		PendingAmount:   data.PendingAmount,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		Installments:    InstallmentsToEntity(data.Installments),
	}
}

func InvestorsToEntity(data []Investor) []domain.Investor {
	responses := make([]domain.Investor, len(data))
	for i, inv := range data {
		responses[i] = *InvestorToEntity(inv)
	}

	return responses
}

package model

import (
	"github.com/kiritara/resort-admin/internal/domain"
)

func PlanFromEntity(data *domain.MembershipPlan) MembershipPlan {
	return MembershipPlan{
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

func PlansFromEntity(data []domain.MembershipPlan) []MembershipPlan {
	rows := make([]MembershipPlan, len(data))
	for i := range data {
		rows[i] = PlanFromEntity(&data[i])
	}

	return rows
}

func PlanToEntity(data MembershipPlan) *domain.MembershipPlan {
	return &domain.MembershipPlan{
		ID:                   data.ID,
		Name:                 data.Name,
		TotalAmount:          data.TotalAmount,
		DownpaymentPercent:   data.DownpaymentPercent,
		MonthlyInstallment:   data.MonthlyInstallment,
		QuarterlyInstallment: data.QuarterlyInstallment,
		Benefits:             data.Benefits,
		Duration:             data.Duration,
		ROI:                  data.ROI,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}

func PlansToEntity(data []MembershipPlan) []domain.MembershipPlan {
	responses := make([]domain.MembershipPlan, len(data))
	for i, p := range data {
		responses[i] = *PlanToEntity(p)
	}

	return responses
}

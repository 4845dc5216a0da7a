package model

import (
	"github.com/kiritara/resort-admin/internal/domain"
)

func InstallmentFromEntity(data *domain.Installment) Installment {
	return Installment{
		ID:          data.ID,
		InvestorID:  data.InvestorID,
		Amount:      data.Amount,
		DueDate:     data.DueDate,
		Status:      InstallmentStatus(data.Status),
		PaidDate:    data.PaidDate,
		PaymentMode: data.PaymentMode,
		Remarks:     data.Remarks,
	}
}

func InstallmentsFromEntity(data []domain.Installment) []Installment {
	rows := make([]Installment, len(data))
	for i := range data {
		rows[i] = InstallmentFromEntity(&data[i])
	}

	return rows
}

func InstallmentToEntity(data Installment) *domain.Installment {
	return &domain.Installment{
		ID:          data.ID,
		InvestorID:  data.InvestorID,
		Amount:      data.Amount,
		DueDate:     data.DueDate,
		Status:      domain.InstallmentStatus(data.Status),
		PaidDate:    data.PaidDate,
		PaymentMode: data.PaymentMode,
		Remarks:     data.Remarks,
	}
}

func InstallmentsToEntity(data []Installment) []domain.Installment {
	responses := make([]domain.Installment, len(data))
	for i, inst := range data {
		responses[i] = *InstallmentToEntity(inst)
	}

	return responses
}

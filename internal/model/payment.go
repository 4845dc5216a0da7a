package model

import (
	"github.com/kiritara/resort-admin/internal/domain"
)

func PaymentFromEntity(data *domain.Payment) Payment {
	return Payment{
		ID:            data.ID,
		InvestorID:    data.InvestorID,
		InstallmentID: data.InstallmentID,
		Amount:        data.Amount,
		PaymentDate:   data.PaymentDate,
		PaymentMode:   data.PaymentMode,
		Remarks:       data.Remarks,
	}
}

func PaymentsFromEntity(data []domain.Payment) []Payment {
	rows := make([]Payment, len(data))
	for i := range data {
		rows[i] = PaymentFromEntity(&data[i])
	}

	return rows
}

func PaymentToEntity(data Payment) *domain.Payment {
	return &domain.Payment{
		ID:            data.ID,
		InvestorID:    data.InvestorID,
		InstallmentID: data.InstallmentID,
		Amount:        data.Amount,
		PaymentDate:   data.PaymentDate,
		PaymentMode:   data.PaymentMode,
		Remarks:       data.Remarks,
	}
}

func PaymentsToEntity(data []Payment) []domain.Payment {
	responses := make([]domain.Payment, len(data))
	for i, p := range data {
		responses[i] = *PaymentToEntity(p)
	}

	return responses
}

func AdminToEntity(data Admin) *domain.Admin {
	return &domain.Admin{
		ID:           data.ID,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FullName:     data.FullName,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func GalleryImageToEntity(data GalleryImage) *domain.GalleryImage {
	return &domain.GalleryImage{
		ID:        data.ID,
		URL:       data.URL,
		Caption:   data.Caption,
		Section:   domain.GallerySection(data.Section),
		CreatedAt: data.CreatedAt,
	}
}

func GalleryImagesToEntity(data []GalleryImage) []domain.GalleryImage {
	responses := make([]domain.GalleryImage, len(data))
	for i, g := range data {
		responses[i] = *GalleryImageToEntity(g)
	}

	return responses
}

package mapper

import (
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:              p.Id,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Tagline:         p.Tagline,
		Price:           p.Price,
		TaxRate:         p.TaxRate,
		BillingPeriod:   entity.BillingPeriod(p.BillingPeriod),
		ChatDailyLimit:  p.ChatDailyLimit,
		MaxCaseNotes:    p.MaxCaseNotes,
		JobBoardEnabled: p.JobBoardEnabled,
		IsMostPopular:   p.IsMostPopular,
		IsActive:        p.IsActive,
		SortOrder:       p.SortOrder,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.UserSubscription) *entity.UserSubscription {
	if s == nil {
		return nil
	}
	return &entity.UserSubscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		BillingAddressId:      s.BillingAddressId,
		Status:                entity.SubscriptionStatus(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         entity.PaymentStatus(s.PaymentStatus),
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.UserSubscription) *model.UserSubscription {
	if s == nil {
		return nil
	}
	return &model.UserSubscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		BillingAddressId:      s.BillingAddressId,
		Status:                string(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         string(s.PaymentStatus),
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) BillingToModel(b *entity.BillingAddress) *model.BillingAddress {
	if b == nil {
		return nil
	}
	return &model.BillingAddress{
		Id:           b.Id,
		UserId:       b.UserId,
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		Email:        b.Email,
		Phone:        b.Phone,
		AddressLine1: b.AddressLine1,
		AddressLine2: b.AddressLine2,
		City:         b.City,
		State:        b.State,
		PostalCode:   b.PostalCode,
		Country:      b.Country,
		IsDefault:    b.IsDefault,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

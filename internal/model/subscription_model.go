package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description   string    `gorm:"type:text"`
	Tagline       string    `gorm:"type:text"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	TaxRate       float64   `gorm:"type:decimal(5,4);default:0"`
	BillingPeriod string    `gorm:"type:varchar(50);not null"`
	// Daily usage limit, 0 = disabled, -1 = unlimited
	ChatDailyLimit  int  `gorm:"default:0"`
	MaxCaseNotes    int  `gorm:"default:20"`
	JobBoardEnabled bool `gorm:"default:false"`
	IsMostPopular   bool `gorm:"default:false"`
	IsActive        bool `gorm:"default:true"`
	SortOrder       int  `gorm:"default:0"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type UserSubscription struct {
	Id                    uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId                uuid.UUID  `gorm:"type:uuid;not null;index"`
	BillingAddressId      *uuid.UUID `gorm:"type:uuid;index"`
	Status                string     `gorm:"type:varchar(50);not null"`
	CurrentPeriodStart    time.Time  `gorm:"not null"`
	CurrentPeriodEnd      time.Time  `gorm:"not null"`
	PaymentStatus         string     `gorm:"type:varchar(50);not null"`
	MidtransTransactionId *string    `gorm:"type:varchar(255)"`
	CreatedAt             time.Time  `gorm:"autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

type BillingAddress struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName    string    `gorm:"type:varchar(255)"`
	LastName     string    `gorm:"type:varchar(255)"`
	Email        string    `gorm:"type:varchar(255)"`
	Phone        string    `gorm:"type:varchar(50)"`
	AddressLine1 string    `gorm:"type:text"`
	AddressLine2 string    `gorm:"type:text"`
	City         string    `gorm:"type:varchar(255)"`
	State        string    `gorm:"type:varchar(255)"`
	PostalCode   string    `gorm:"type:varchar(20)"`
	Country      string    `gorm:"type:varchar(100)"`
	IsDefault    bool      `gorm:"default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (BillingAddress) TableName() string {
	return "billing_addresses"
}

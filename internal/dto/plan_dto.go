package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Tagline       string    `json:"tagline"`
	Price         float64   `json:"price"`
	BillingPeriod string    `json:"billing_period"`
	IsMostPopular bool      `json:"is_most_popular"`
	Limits        PlanLimitsDTO `json:"limits"`
}

type PlanLimitsDTO struct {
	ChatDaily       int  `json:"chat_daily"`
	MaxCaseNotes    int  `json:"max_case_notes"`
	JobBoardEnabled bool `json:"job_board_enabled"`
}

// UsageLimit reports one limit. Limit -1 means unlimited, 0 disabled.
type UsageLimit struct {
	Used     int        `json:"used"`
	Limit    int        `json:"limit"`
	CanUse   bool       `json:"can_use"`
	ResetsAt *time.Time `json:"resets_at,omitempty"`
}

type UsageStatusResponse struct {
	Plan             PlanInfo   `json:"plan"`
	Chat             UsageLimit `json:"chat"`
	CaseNotes        UsageLimit `json:"case_notes"`
	NearLimit        bool       `json:"near_limit"`
	UpgradeAvailable bool       `json:"upgrade_available"`
}

type PlanInfo struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

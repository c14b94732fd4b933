package models

import "time"

// InsurancePlan defines tiered coverage with premiums per billing frequency.
type InsurancePlan struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Tier           string    `gorm:"size:30;not null" json:"tier"` // basic, standard, premium
	Description    string    `gorm:"type:text" json:"description"`
	CoverageAmount float64   `gorm:"not null" json:"coverage_amount"`
	MonthlyPremium float64   `gorm:"not null" json:"monthly_premium"`
	YearlyPremium  float64   `gorm:"not null" json:"yearly_premium"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Subscription links a user to a plan. It tracks its own dates and active
// flag, independent of the wallet debit that paid for it.
type Subscription struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	UserID           uint64    `gorm:"index;not null" json:"user_id"`
	PlanID           uint64    `gorm:"index;not null" json:"plan_id"`
	Frequency        string    `gorm:"size:10;not null" json:"frequency"` // monthly, yearly
	PremiumAmount    float64   `gorm:"not null" json:"premium_amount"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	PaymentReference string    `gorm:"size:64" json:"payment_reference"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Plan *InsurancePlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

type CreatePlanInput struct {
	Name           string  `json:"name" binding:"required"`
	Tier           string  `json:"tier" binding:"required,oneof=basic standard premium"`
	Description    string  `json:"description"`
	CoverageAmount float64 `json:"coverage_amount" binding:"required,gt=0"`
	MonthlyPremium float64 `json:"monthly_premium" binding:"required,gt=0"`
	YearlyPremium  float64 `json:"yearly_premium" binding:"required,gt=0"`
}

type SubscribeInput struct {
	PlanID    uint64 `json:"plan_id" binding:"required"`
	Frequency string `json:"frequency" binding:"required,oneof=monthly yearly"`
}

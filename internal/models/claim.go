package models

import "time"

type ClaimStatus string

const (
	ClaimPending     ClaimStatus = "pending"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimDeclined    ClaimStatus = "declined"
	ClaimPaid        ClaimStatus = "paid" // settlement happens outside this service
)

// Claim is a reimbursement request against a policy, reviewed by an admin.
type Claim struct {
	ID             uint64      `gorm:"primaryKey" json:"id"`
	UserID         uint64      `gorm:"index;not null" json:"user_id"`
	SubscriptionID *uint64     `gorm:"index" json:"subscription_id,omitempty"`
	ClaimType      string      `gorm:"size:50;not null" json:"claim_type"`
	Description    string      `gorm:"type:text" json:"description"`
	Amount         float64     `gorm:"not null" json:"amount"`
	Status         ClaimStatus `gorm:"size:20;not null;default:pending" json:"status"`
	ApprovedAmount *float64    `json:"approved_amount,omitempty"`
	ReviewedBy     *uint64     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty"`
	ReviewNotes    string      `gorm:"type:text" json:"review_notes,omitempty"`

	// Advisory fields written by the async analysis step. Never drive status.
	RiskScore      *float64 `json:"risk_score,omitempty"`
	Recommendation string   `gorm:"size:30" json:"recommendation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type SubmitClaimInput struct {
	SubscriptionID *uint64 `json:"subscription_id"`
	ClaimType      string  `json:"claim_type" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
}

type ApproveClaimInput struct {
	ApprovedAmount *float64 `json:"approved_amount"`
	Notes          string   `json:"notes"`
}

type DeclineClaimInput struct {
	Notes string `json:"notes" binding:"required"`
}

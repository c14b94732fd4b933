package models

import "time"

type GroupStatus string

const (
	GroupDraft     GroupStatus = "draft"
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
	GroupCancelled GroupStatus = "cancelled"
)

const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// GroupSavings is a rotating fund (ajo/esusu): every cycle each member pays
// contribution_amount and one member takes the pooled total, rotating by
// join position until everyone has received once.
type GroupSavings struct {
	ID                   uint64      `gorm:"primaryKey" json:"id"`
	Name                 string      `gorm:"size:100;not null" json:"name"`
	Description          string      `gorm:"type:text" json:"description"`
	CreatorID            uint64      `gorm:"index;not null" json:"creator_id"`
	ContributionAmount   float64     `gorm:"not null" json:"contribution_amount"`
	Frequency            string      `gorm:"size:10;not null" json:"frequency"` // weekly, monthly
	MaxMembers           int         `gorm:"not null" json:"max_members"`
	CurrentCycle         int         `gorm:"not null;default:1" json:"current_cycle"`
	Status               GroupStatus `gorm:"size:15;not null;default:draft" json:"status"`
	NextContributionDate *time.Time  `json:"next_contribution_date,omitempty"`
	NextPayoutDate       *time.Time  `json:"next_payout_date,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`

	Members       []GroupMember  `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Contributions []Contribution `gorm:"foreignKey:GroupID" json:"contributions,omitempty"`
}

type GroupMember struct {
	ID               uint64     `gorm:"primaryKey" json:"id"`
	GroupID          uint64     `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID           uint64     `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	Position         int        `gorm:"not null" json:"position"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	ReceivedPayoutAt *time.Time `json:"received_payout_at,omitempty"`
	JoinedAt         time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type ContributionStatus string

const (
	ContributionPaid    ContributionStatus = "paid"
	ContributionPending ContributionStatus = "pending"
	// Overdue is computed on read from DueDate, never persisted.
	ContributionOverdue ContributionStatus = "overdue"
)

// Contribution records one member's payment for one cycle. The compound
// unique index is what makes a concurrent double-submit lose at insert time
// instead of relying on the existence check alone.
type Contribution struct {
	ID       uint64             `gorm:"primaryKey" json:"id"`
	GroupID  uint64             `gorm:"not null;uniqueIndex:idx_group_member_cycle" json:"group_id"`
	MemberID uint64             `gorm:"not null;uniqueIndex:idx_group_member_cycle" json:"member_id"`
	Cycle    int                `gorm:"not null;uniqueIndex:idx_group_member_cycle" json:"cycle"`
	UserID   uint64             `gorm:"index;not null" json:"user_id"`
	Amount   float64            `gorm:"not null" json:"amount"`
	Status   ContributionStatus `gorm:"size:10;not null;default:paid" json:"status"`
	DueDate  *time.Time         `json:"due_date,omitempty"`
	PaidAt   *time.Time         `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupInput struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	ContributionAmount float64 `json:"contribution_amount" binding:"required,gt=0"`
	Frequency          string  `json:"frequency" binding:"required,oneof=weekly monthly"`
	MaxMembers         int     `json:"max_members" binding:"required,min=2"`
}

type ContributeInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNegativeBalance = errors.New("wallet balance cannot be negative")

type Wallet struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   float64   `gorm:"not null;default:0" json:"balance"`
	Currency  string    `gorm:"size:3;not null;default:NGN" json:"currency"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

// BeforeSave is the persistence-layer backstop: the ledger never computes a
// negative balance, and the store refuses to persist one either way.
func (w *Wallet) BeforeSave(tx *gorm.DB) error {
	if w.Balance < 0 {
		return ErrNegativeBalance
	}
	return nil
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "pending"
	TransactionSuccessful TransactionStatus = "successful"
	TransactionFailed     TransactionStatus = "failed"
	TransactionCancelled  TransactionStatus = "cancelled"
)

// Transaction categories
const (
	CategoryFunding           = "funding"
	CategoryClaimPayout       = "claim_payout"
	CategoryGroupContribution = "group_contribution"
	CategoryGroupPayout       = "group_payout"
	CategorySubscription      = "subscription"
	CategoryCashback          = "cashback"
	CategoryManual            = "manual"
)

// Transaction is a single immutable ledger entry. Once status leaves
// 'pending' the row is never rewritten.
type Transaction struct {
	ID          uint64            `gorm:"primaryKey" json:"id"`
	WalletID    uint64            `gorm:"index;not null" json:"wallet_id"`
	UserID      uint64            `gorm:"index;not null" json:"user_id"`
	Reference   string            `gorm:"uniqueIndex;size:64;not null" json:"reference"`
	Type        TransactionType   `gorm:"size:10;not null" json:"type"`
	Amount      float64           `gorm:"not null" json:"amount"`
	Status      TransactionStatus `gorm:"size:15;not null;default:pending" json:"status"`
	Category    string            `gorm:"size:30;not null" json:"category"`
	Channel     string            `gorm:"size:30" json:"channel"` // wallet, paystack
	Description string            `gorm:"size:255" json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the entry can still be reconciled.
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionPending
}

type FundWalletInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

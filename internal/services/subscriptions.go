package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
)

// SubscriptionService sells plan subscriptions out of the wallet and credits
// the configured cashback back.
type SubscriptionService struct {
	db              *gorm.DB
	wallets         *WalletService
	cashbackPercent float64
}

func NewSubscriptionService(db *gorm.DB, wallets *WalletService, cashbackPercent float64) *SubscriptionService {
	return &SubscriptionService{db: db, wallets: wallets, cashbackPercent: cashbackPercent}
}

// Purchase debits the premium, opens the subscription for one billing
// period, and credits cashback when configured.
func (s *SubscriptionService) Purchase(userID uint64, input models.SubscribeInput) (*models.Subscription, error) {
	var plan models.InsurancePlan
	if err := s.db.Where("id = ? AND is_active = ?", input.PlanID, true).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	premium := plan.MonthlyPremium
	months := 1
	if input.Frequency == "yearly" {
		premium = plan.YearlyPremium
		months = 12
	}

	txn, err := s.wallets.Debit(userID, premium, models.CategorySubscription,
		"premium for "+plan.Name, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := models.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		Frequency:        input.Frequency,
		PremiumAmount:    premium,
		StartDate:        now,
		EndDate:          now.AddDate(0, months, 0),
		IsActive:         true,
		PaymentReference: txn.Reference,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	if cashback := s.cashback(premium); cashback > 0 {
		if _, err := s.wallets.Credit(userID, cashback, models.CategoryCashback,
			"cashback on "+plan.Name+" premium", ""); err != nil {
			// Cashback is a perk, not part of the purchase contract.
			log.Error().Err(err).Uint64("user_id", userID).Msg("cashback credit failed")
		}
	}

	return &sub, nil
}

// cashback computes percent-of-premium with decimal math rounded to kobo.
func (s *SubscriptionService) cashback(premium float64) float64 {
	if s.cashbackPercent <= 0 {
		return 0
	}
	amount := decimal.NewFromFloat(premium).
		Mul(decimal.NewFromFloat(s.cashbackPercent)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	f, _ := amount.Float64()
	return f
}

// Cancel deactivates a subscription. No refunds.
func (s *SubscriptionService) Cancel(userID, subscriptionID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	sub.IsActive = false
	if err := s.db.Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) ListByUser(userID uint64, limit, offset int) ([]models.Subscription, int64, error) {
	var subs []models.Subscription
	var total int64

	q := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Plan").Order("created_at desc").Limit(limit).Offset(offset).Find(&subs).Error
	return subs, total, err
}

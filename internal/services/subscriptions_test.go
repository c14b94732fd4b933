package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"insurewise-backend/internal/models"
)

func seedPlan(t *testing.T, db *gorm.DB, monthly, yearly float64, active bool) *models.InsurancePlan {
	t.Helper()
	plan := models.InsurancePlan{
		Name:           "Health Basic",
		Tier:           "basic",
		CoverageAmount: 500000,
		MonthlyPremium: monthly,
		YearlyPremium:  yearly,
		IsActive:       active,
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return &plan
}

func TestPurchaseMonthlyDebitsPremiumAndCreditsCashback(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	svc := NewSubscriptionService(db, wallets, 2.5)
	user := seedUser(t, db, 10000)
	plan := seedPlan(t, db, 5000, 50000, true)

	sub, err := svc.Purchase(user.ID, models.SubscribeInput{PlanID: plan.ID, Frequency: "monthly"})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sub.PremiumAmount != 5000 {
		t.Errorf("premium = %v, want 5000", sub.PremiumAmount)
	}
	if !sub.IsActive {
		t.Error("subscription not active")
	}
	if sub.PaymentReference == "" {
		t.Error("payment reference missing")
	}

	// 10000 - 5000 premium + 125 cashback (2.5% of 5000).
	if got := walletBalance(t, db, user.ID); got != 5125 {
		t.Errorf("balance = %v, want 5125", got)
	}
}

func TestPurchaseYearlyUsesYearlyPremium(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	svc := NewSubscriptionService(db, wallets, 0)
	user := seedUser(t, db, 60000)
	plan := seedPlan(t, db, 5000, 50000, true)

	sub, err := svc.Purchase(user.ID, models.SubscribeInput{PlanID: plan.ID, Frequency: "yearly"})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sub.PremiumAmount != 50000 {
		t.Errorf("premium = %v, want 50000", sub.PremiumAmount)
	}
	if got := sub.EndDate.Sub(sub.StartDate).Hours() / 24; got < 360 {
		t.Errorf("coverage period = %v days, want about a year", got)
	}
	// No cashback configured.
	if got := walletBalance(t, db, user.ID); got != 10000 {
		t.Errorf("balance = %v, want 10000", got)
	}
}

func TestPurchaseInactivePlanRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, NewWalletService(db), 0)
	user := seedUser(t, db, 10000)
	plan := seedPlan(t, db, 5000, 50000, false)

	if _, err := svc.Purchase(user.ID, models.SubscribeInput{PlanID: plan.ID, Frequency: "monthly"}); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, NewWalletService(db), 0)
	user := seedUser(t, db, 100)
	plan := seedPlan(t, db, 5000, 50000, true)

	if _, err := svc.Purchase(user.ID, models.SubscribeInput{PlanID: plan.ID, Frequency: "monthly"}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("subscriptions = %d, want 0 after failed debit", count)
	}
}

func TestCancelSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, NewWalletService(db), 0)
	user := seedUser(t, db, 10000)
	other := seedUser(t, db, 0)
	plan := seedPlan(t, db, 5000, 50000, true)

	sub, err := svc.Purchase(user.ID, models.SubscribeInput{PlanID: plan.ID, Frequency: "monthly"})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// Another user cannot cancel someone else's subscription.
	if _, err := svc.Cancel(other.ID, sub.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("cross-user cancel err = %v, want ErrSubscriptionNotFound", err)
	}

	cancelled, err := svc.Cancel(user.ID, sub.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.IsActive {
		t.Error("subscription still active after cancel")
	}
	// No refunds.
	if got := walletBalance(t, db, user.ID); got != 5000 {
		t.Errorf("balance = %v, want 5000", got)
	}
}

func TestCashbackRounding(t *testing.T) {
	svc := NewSubscriptionService(nil, nil, 2.5)

	tests := []struct {
		premium float64
		want    float64
	}{
		{5000, 125},
		{3333, 83.33},
		{0.01, 0},
		{100, 2.5},
	}
	for _, tt := range tests {
		if got := svc.cashback(tt.premium); got != tt.want {
			t.Errorf("cashback(%v) = %v, want %v", tt.premium, got, tt.want)
		}
	}
}

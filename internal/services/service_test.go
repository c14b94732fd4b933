package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"insurewise-backend/internal/config"
	"insurewise-backend/internal/models"
)

// newTestDB opens an in-memory database with the full schema. One connection
// only, so the async claim analysis cannot interleave with assertions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var userSeq int

// seedUser creates a user with a wallet holding the given balance.
func seedUser(t *testing.T, db *gorm.DB, balance float64) *models.User {
	t.Helper()

	userSeq++
	user := models.User{
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		Phone:        fmt.Sprintf("080000000%02d", userSeq),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	wallet := models.Wallet{UserID: user.ID, Balance: balance, Currency: "NGN", IsActive: true}
	if err := db.Create(&wallet).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return &user
}

func walletBalance(t *testing.T, db *gorm.DB, userID uint64) float64 {
	t.Helper()

	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		t.Fatalf("fetch wallet: %v", err)
	}
	return wallet.Balance
}

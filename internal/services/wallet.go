package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
)

// WalletService is the only code path allowed to mutate balances. Every
// credit/debit pairs the balance update with a ledger entry inside one DB
// transaction.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// WithTx returns a service bound to an ongoing transaction, so a caller can
// fold wallet moves into a larger atomic flow.
func (s *WalletService) WithTx(tx *gorm.DB) *WalletService {
	return &WalletService{db: tx}
}

// NewReference generates a unique ledger reference.
func NewReference() string {
	return "TXN-" + uuid.New().String()
}

// CreateWallet opens a wallet for a new user with the configured opening
// balance.
func (s *WalletService) CreateWallet(userID uint64, openingBalance float64) (*models.Wallet, error) {
	wallet := models.Wallet{UserID: userID, Balance: openingBalance, Currency: "NGN", IsActive: true}
	if err := s.db.Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *WalletService) GetByUserID(userID uint64) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// CanDebit reports whether the wallet can cover the amount right now.
func (s *WalletService) CanDebit(wallet *models.Wallet, amount float64) bool {
	return wallet.IsActive && amount > 0 && wallet.Balance >= amount
}

// Credit adds funds and records a successful credit entry.
func (s *WalletService) Credit(userID uint64, amount float64, category, description, reference string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if reference == "" {
		reference = NewReference()
	}

	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		wallet.Balance += amount
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}

		txn = models.Transaction{
			WalletID:    wallet.ID,
			UserID:      userID,
			Reference:   reference,
			Type:        models.TransactionCredit,
			Amount:      amount,
			Status:      models.TransactionSuccessful,
			Category:    category,
			Channel:     "wallet",
			Description: description,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", userID).Float64("amount", amount).Str("category", category).Msg("wallet credited")
	return &txn, nil
}

// Debit removes funds if the balance covers it. Insufficient funds is a
// normal outcome reported as ErrInsufficientFunds with no state change.
func (s *WalletService) Debit(userID uint64, amount float64, category, description, reference string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if reference == "" {
		reference = NewReference()
	}

	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if !wallet.IsActive {
			return ErrWalletInactive
		}
		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}

		wallet.Balance -= amount
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}

		txn = models.Transaction{
			WalletID:    wallet.ID,
			UserID:      userID,
			Reference:   reference,
			Type:        models.TransactionDebit,
			Amount:      amount,
			Status:      models.TransactionSuccessful,
			Category:    category,
			Channel:     "wallet",
			Description: description,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", userID).Float64("amount", amount).Str("category", category).Msg("wallet debited")
	return &txn, nil
}

// CreatePending records a funding transaction awaiting gateway confirmation.
func (s *WalletService) CreatePending(userID uint64, amount float64, category, channel, description, reference string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		Reference:   reference,
		Type:        models.TransactionCredit,
		Amount:      amount,
		Status:      models.TransactionPending,
		Category:    category,
		Channel:     channel,
		Description: description,
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// CompletePending promotes a pending credit to successful and applies the
// balance change. A transaction already in a terminal state returns
// ErrAlreadyProcessed and changes nothing, which is what makes webhook
// retries safe.
func (s *WalletService) CompletePending(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reference = ?", reference).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionMissing
			}
			return err
		}

		if txn.IsTerminal() {
			return ErrAlreadyProcessed
		}

		if txn.Type == models.TransactionCredit {
			var wallet models.Wallet
			if err := tx.First(&wallet, txn.WalletID).Error; err != nil {
				return err
			}
			wallet.Balance += txn.Amount
			if err := tx.Save(&wallet).Error; err != nil {
				return err
			}
		}

		txn.Status = models.TransactionSuccessful
		return tx.Save(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("reference", reference).Float64("amount", txn.Amount).Msg("pending transaction completed")
	return &txn, nil
}

// FailPending marks a pending transaction failed. Terminal entries are left
// alone.
func (s *WalletService) FailPending(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Where("reference = ?", reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionMissing
		}
		return nil, err
	}

	if txn.IsTerminal() {
		return nil, ErrAlreadyProcessed
	}

	txn.Status = models.TransactionFailed
	if err := s.db.Save(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// Transactions lists a user's ledger entries, newest first.
func (s *WalletService) Transactions(userID uint64, limit, offset int) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}

// FindTransaction looks up a ledger entry by reference, optionally scoped to
// a user (0 skips the user filter, used by webhook reconciliation).
func (s *WalletService) FindTransaction(reference string, userID uint64) (*models.Transaction, error) {
	var txn models.Transaction
	q := s.db.Where("reference = ?", reference)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionMissing
		}
		return nil, err
	}
	return &txn, nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"insurewise-backend/internal/metrics"
	"insurewise-backend/internal/models"
	"insurewise-backend/internal/paystack"
)

// PaymentService reconciles Paystack charges against pending wallet-funding
// transactions. Both verify (user-polled) and webhook (provider-pushed)
// converge on the same complete/fail path, which is idempotent on the
// transaction's terminal status.
type PaymentService struct {
	db          *gorm.DB
	wallets     *WalletService
	gateway     *paystack.Client
	callbackURL string
}

func NewPaymentService(db *gorm.DB, wallets *WalletService, gateway *paystack.Client, callbackURL string) *PaymentService {
	return &PaymentService{db: db, wallets: wallets, gateway: gateway, callbackURL: callbackURL}
}

// InitializeResult is what the frontend needs to hand the user to checkout.
type InitializeResult struct {
	Reference        string  `json:"reference"`
	Amount           float64 `json:"amount"`
	AuthorizationURL string  `json:"authorization_url"`
	AccessCode       string  `json:"access_code"`
}

// Initialize creates a pending funding transaction and opens a checkout
// session with the provider.
func (s *PaymentService) Initialize(ctx context.Context, userID uint64, email string, amount float64) (*InitializeResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	reference := "PSK-" + uuid.New().String()
	if _, err := s.wallets.CreatePending(userID, amount, models.CategoryFunding, "paystack",
		"wallet funding via paystack", reference); err != nil {
		return nil, err
	}

	data, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountKobo:  int64(amount * 100),
		Reference:   reference,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		// Leave the pending row; verify can still settle it if the provider
		// accepted the charge before the error.
		log.Error().Err(err).Str("reference", reference).Msg("paystack initialize failed")
		return nil, err
	}

	metrics.PaymentsInitialized.Inc()
	return &InitializeResult{
		Reference:        reference,
		Amount:           amount,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

// Verify settles a transaction on the user's request. An already-successful
// transaction is rejected rather than silently re-verified.
func (s *PaymentService) Verify(ctx context.Context, userID uint64, reference string) (*models.Transaction, error) {
	txn, err := s.wallets.FindTransaction(reference, userID)
	if err != nil {
		return nil, err
	}
	if txn.Status == models.TransactionSuccessful {
		return nil, ErrAlreadyProcessed
	}

	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if data.Status == "success" {
		completed, err := s.wallets.CompletePending(reference)
		if err != nil {
			return nil, err
		}
		metrics.PaymentsCompleted.Inc()
		return completed, nil
	}

	failed, err := s.wallets.FailPending(reference)
	if err != nil {
		return nil, err
	}
	metrics.PaymentsFailed.Inc()
	return failed, nil
}

// HandleWebhook dispatches a signature-validated provider event. Reconciling
// an already-terminal transaction is a no-op so webhook retries never
// double-credit.
func (s *PaymentService) HandleWebhook(event *paystack.WebhookEvent) error {
	metrics.WebhookEvents.WithLabelValues(event.Event).Inc()

	charge, err := event.ChargeData()
	if err != nil {
		return err
	}
	if charge.Reference == "" {
		log.Warn().Str("event", event.Event).Msg("webhook event without reference, ignoring")
		return nil
	}

	switch event.Event {
	case paystack.EventChargeSuccess, paystack.EventTransferSuccess:
		_, err = s.wallets.CompletePending(charge.Reference)
		if err == nil {
			metrics.PaymentsCompleted.Inc()
		}
	case paystack.EventChargeFailed, paystack.EventTransferFailed:
		_, err = s.wallets.FailPending(charge.Reference)
		if err == nil {
			metrics.PaymentsFailed.Inc()
		}
	default:
		log.Info().Str("event", event.Event).Msg("unhandled webhook event")
		return nil
	}

	if errors.Is(err, ErrAlreadyProcessed) {
		log.Info().Str("reference", charge.Reference).Str("event", event.Event).Msg("webhook replay, already settled")
		return nil
	}
	return err
}

package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
	"insurewise-backend/internal/paystack"
	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

type PaymentHandler struct {
	db            *gorm.DB
	payments      *services.PaymentService
	webhookSecret string
}

func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments, webhookSecret: webhookSecret}
}

// Initialize opens a checkout session to fund the caller's wallet.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	userID, _ := currentUser(c)

	var input models.FundWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User not found", nil)
		return
	}

	result, err := h.payments.Initialize(c.Request.Context(), userID, user.Email, input.Amount)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Payment initialized, complete checkout", result)
}

// Verify settles a transaction at the user's request after checkout.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, _ := currentUser(c)
	reference := c.Param("reference")

	txn, err := h.payments.Verify(c.Request.Context(), userID, reference)
	if err != nil {
		serviceError(c, err)
		return
	}

	message := "Payment verified"
	if txn.Status != models.TransactionSuccessful {
		message = "Payment failed"
	}
	utils.APIResponse(c, http.StatusOK, true, message, txn)
}

// Webhook receives Paystack event deliveries. Order matters: validate the
// signature over the raw body first, then look up and reconcile the
// transaction. After a valid signature the provider always gets a 200, even
// when reconciliation fails, so it does not retry forever; failures are
// logged and settled later via verify.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Unable to read payload", nil)
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !paystack.ValidateSignature(payload, signature, h.webhookSecret) {
		log.Warn().Msg("webhook signature mismatch")
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid signature", nil)
		return
	}

	event, err := paystack.ParseWebhook(payload)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid payload", nil)
		return
	}

	if err := h.payments.HandleWebhook(event); err != nil {
		log.Error().Err(err).Str("event", event.Event).Msg("webhook reconciliation failed")
	} else if event.Event == paystack.EventChargeSuccess {
		h.notifyFunding(event)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PaymentHandler) notifyFunding(event *paystack.WebhookEvent) {
	charge, err := event.ChargeData()
	if err != nil || charge.Reference == "" {
		return
	}

	var txn models.Transaction
	if err := h.db.Where("reference = ?", charge.Reference).First(&txn).Error; err != nil {
		return
	}
	var user models.User
	if err := h.db.First(&user, txn.UserID).Error; err != nil {
		return
	}
	go utils.SendNotification(user.FCMToken, "Wallet funded",
		fmt.Sprintf("Your wallet has been credited with %.2f.", txn.Amount),
		map[string]string{"reference": txn.Reference, "type": "wallet_funded"})
}

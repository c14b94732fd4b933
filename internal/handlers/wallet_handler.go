package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

type WalletHandler struct {
	wallets *services.WalletService
}

func NewWalletHandler(wallets *services.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// Get shows the caller's balance.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)

	wallet, err := h.wallets.GetByUserID(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Wallet", wallet)
}

// Transactions lists the caller's ledger history, paginated.
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit, offset := utils.PageParams(c)

	txns, total, err := h.wallets.Transactions(userID, limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "Transaction history", txns, utils.NewPagination(page, limit, total))
}

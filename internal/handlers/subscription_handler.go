package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insurewise-backend/internal/models"
	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Subscribe buys a plan out of the caller's wallet.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, _ := currentUser(c)

	var input models.SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	sub, err := h.subscriptions.Purchase(userID, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Subscription active", sub)
}

// List shows the caller's subscriptions.
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit, offset := utils.PageParams(c)

	subs, total, err := h.subscriptions.ListByUser(userID, limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "My subscriptions", subs, utils.NewPagination(page, limit, total))
}

// Cancel deactivates a subscription.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, _ := currentUser(c)
	id := utils.StringToUint64(c.Param("id"))

	sub, err := h.subscriptions.Cancel(userID, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Subscription cancelled", sub)
}

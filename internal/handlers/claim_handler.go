package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

type ClaimHandler struct {
	db     *gorm.DB
	claims *services.ClaimService
}

func NewClaimHandler(db *gorm.DB, claims *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{db: db, claims: claims}
}

// Submit files a new claim for the caller.
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, _ := currentUser(c)

	var input models.SubmitClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	claim, err := h.claims.Submit(userID, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Claim submitted", claim)
}

// List shows the caller's claims.
func (h *ClaimHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit, offset := utils.PageParams(c)

	claims, total, err := h.claims.ListByUser(userID, limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "My claims", claims, utils.NewPagination(page, limit, total))
}

// Get shows one claim; the owner or an admin may see it.
func (h *ClaimHandler) Get(c *gin.Context) {
	userID, role := currentUser(c)
	claimID := utils.StringToUint64(c.Param("id"))

	claim, err := h.claims.Get(claimID)
	if err != nil {
		serviceError(c, err)
		return
	}

	if claim.UserID != userID && role != models.RoleAdmin {
		utils.APIResponse(c, http.StatusForbidden, false, "You can only access your own claims", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Claim", claim)
}

// ListAll is the admin review queue, optionally filtered by status.
func (h *ClaimHandler) ListAll(c *gin.Context) {
	page, limit, offset := utils.PageParams(c)

	claims, total, err := h.claims.ListAll(c.Query("status"), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "Claims", claims, utils.NewPagination(page, limit, total))
}

// Review moves a pending claim under review.
func (h *ClaimHandler) Review(c *gin.Context) {
	adminID, _ := currentUser(c)
	claimID := utils.StringToUint64(c.Param("id"))

	claim, err := h.claims.Review(adminID, claimID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Claim moved under review", claim)
}

// Approve accepts a claim and notifies the claimant.
func (h *ClaimHandler) Approve(c *gin.Context) {
	adminID, _ := currentUser(c)
	claimID := utils.StringToUint64(c.Param("id"))

	var input models.ApproveClaimInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	claim, err := h.claims.Approve(adminID, claimID, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.notifyDecision(claim, "Claim approved",
		fmt.Sprintf("Your claim #%d was approved for %.2f.", claim.ID, *claim.ApprovedAmount))
	utils.APIResponse(c, http.StatusOK, true, "Claim approved", claim)
}

// Decline rejects a claim with mandatory notes and notifies the claimant.
func (h *ClaimHandler) Decline(c *gin.Context) {
	adminID, _ := currentUser(c)
	claimID := utils.StringToUint64(c.Param("id"))

	var input models.DeclineClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Review notes are required to decline", nil)
		return
	}

	claim, err := h.claims.Decline(adminID, claimID, input.Notes)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.notifyDecision(claim, "Claim declined",
		fmt.Sprintf("Your claim #%d was declined. Reason: %s", claim.ID, claim.ReviewNotes))
	utils.APIResponse(c, http.StatusOK, true, "Claim declined", claim)
}

func (h *ClaimHandler) notifyDecision(claim *models.Claim, title, body string) {
	var user models.User
	if err := h.db.First(&user, claim.UserID).Error; err != nil {
		return
	}
	go utils.SendNotification(user.FCMToken, title, body, map[string]string{
		"claim_id": fmt.Sprintf("%d", claim.ID),
		"type":     "claim_decision",
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
	"insurewise-backend/pkg/utils"
)

// AdminHandler holds back-office listings. Claim review lives on
// ClaimHandler; this covers users and the global ledger.
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListUsers pages through all accounts.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit, offset := utils.PageParams(c)

	var users []models.User
	var total int64

	q := h.db.Model(&models.User{})
	if err := q.Count(&total).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "Users", users, utils.NewPagination(page, limit, total))
}

type userStatusInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetUserStatus activates or deactivates an account.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id := utils.StringToUint64(c.Param("id"))

	var input userStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User not found", nil)
		return
	}

	user.IsActive = *input.IsActive
	if err := h.db.Save(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to update user", nil)
		return
	}

	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	utils.APIResponse(c, http.StatusOK, true, message, user)
}

// ListTransactions pages the whole ledger, optionally filtered by status or
// category.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, limit, offset := utils.PageParams(c)

	var txns []models.Transaction
	var total int64

	q := h.db.Model(&models.Transaction{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "Transactions", txns, utils.NewPagination(page, limit, total))
}

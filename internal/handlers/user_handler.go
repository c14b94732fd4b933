package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
	"insurewise-backend/pkg/utils"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := currentUser(c)

	var user models.User
	if err := h.db.Preload("Wallet").First(&user, userID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User not found", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profile", user)
}

// UpdateMe updates the editable profile fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, _ := currentUser(c)

	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User not found", nil)
		return
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}

	if err := h.db.Save(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to update profile", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profile updated", user)
}

// Get returns a user by id. Route is gated by OwnerOrAdmin.
func (h *UserHandler) Get(c *gin.Context) {
	id := utils.StringToUint64(c.Param("id"))

	var user models.User
	if err := h.db.Preload("Wallet").First(&user, id).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User not found", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "User", user)
}

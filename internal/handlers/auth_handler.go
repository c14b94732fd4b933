package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"insurewise-backend/internal/config"
	"insurewise-backend/internal/models"
	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

type AuthHandler struct {
	db      *gorm.DB
	wallets *services.WalletService
	cfg     *config.Config
}

func NewAuthHandler(db *gorm.DB, wallets *services.WalletService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, wallets: wallets, cfg: cfg}
}

// Register creates the user and opens their wallet with the configured
// opening balance.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to process password", nil)
		return
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Phone:        input.Phone,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Email or phone number already registered", nil)
		return
	}

	if _, err := h.wallets.CreateWallet(user.ID, h.cfg.DefaultWalletBalance); err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to open wallet", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Registration successful, please log in", user)
}

// Login checks credentials and issues an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", nil)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	if !utils.CheckPassword(input.Password, user.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	if !user.IsActive {
		utils.APIResponse(c, http.StatusForbidden, false, "Account is deactivated", nil)
		return
	}

	// Store the device token when the app sends one, for push notifications.
	if input.FCMToken != "" {
		h.db.Model(&user).Update("fcm_token", input.FCMToken)
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to generate token", nil)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to generate token", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Login successful", gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
	})
}

// Refresh trades a valid refresh token for a new access token. Role is read
// fresh from the database, not from the old token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input models.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", nil)
		return
	}

	token, err := utils.ValidateRefreshToken(input.RefreshToken)
	if err != nil || !token.Valid {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid or expired refresh token", nil)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token claims", nil)
		return
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token subject", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, uint64(sub)).Error; err != nil || !user.IsActive {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Account not found or deactivated", nil)
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to generate token", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Token refreshed", gin.H{"access_token": accessToken})
}

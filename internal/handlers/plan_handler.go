package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"insurewise-backend/internal/models"
	"insurewise-backend/pkg/utils"
)

type PlanHandler struct {
	db *gorm.DB
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

// List shows active plans. Public, so people can compare prices before
// signing up.
func (h *PlanHandler) List(c *gin.Context) {
	page, limit, offset := utils.PageParams(c)

	var plans []models.InsurancePlan
	var total int64

	q := h.db.Model(&models.InsurancePlan{}).Where("is_active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}
	if err := q.Order("coverage_amount asc").Limit(limit).Offset(offset).Find(&plans).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "Insurance plans", plans, utils.NewPagination(page, limit, total))
}

func (h *PlanHandler) Get(c *gin.Context) {
	id := utils.StringToUint64(c.Param("id"))

	var plan models.InsurancePlan
	if err := h.db.First(&plan, id).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Insurance plan not found", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Insurance plan", plan)
}

// Create adds a plan. Admin only.
func (h *PlanHandler) Create(c *gin.Context) {
	var input models.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	plan := models.InsurancePlan{
		Name:           input.Name,
		Tier:           input.Tier,
		Description:    input.Description,
		CoverageAmount: input.CoverageAmount,
		MonthlyPremium: input.MonthlyPremium,
		YearlyPremium:  input.YearlyPremium,
		IsActive:       true,
	}
	if err := h.db.Create(&plan).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to create plan", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Plan created", plan)
}

// Update edits a plan. Admin only.
func (h *PlanHandler) Update(c *gin.Context) {
	id := utils.StringToUint64(c.Param("id"))

	var plan models.InsurancePlan
	if err := h.db.First(&plan, id).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Insurance plan not found", nil)
		return
	}

	var input models.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	plan.Name = input.Name
	plan.Tier = input.Tier
	plan.Description = input.Description
	plan.CoverageAmount = input.CoverageAmount
	plan.MonthlyPremium = input.MonthlyPremium
	plan.YearlyPremium = input.YearlyPremium
	if err := h.db.Save(&plan).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to update plan", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Plan updated", plan)
}

// Deactivate retires a plan without touching existing subscriptions.
func (h *PlanHandler) Deactivate(c *gin.Context) {
	id := utils.StringToUint64(c.Param("id"))

	var plan models.InsurancePlan
	if err := h.db.First(&plan, id).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Insurance plan not found", nil)
		return
	}

	plan.IsActive = false
	if err := h.db.Save(&plan).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to deactivate plan", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Plan deactivated", plan)
}

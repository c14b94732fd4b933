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

type GroupHandler struct {
	db     *gorm.DB
	groups *services.GroupService
}

func NewGroupHandler(db *gorm.DB, groups *services.GroupService) *GroupHandler {
	return &GroupHandler{db: db, groups: groups}
}

// Create opens a new draft group with the caller as first member.
func (h *GroupHandler) Create(c *gin.Context) {
	userID, _ := currentUser(c)

	var input models.CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	group, err := h.groups.Create(userID, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Group created", group)
}

// List shows the caller's groups.
func (h *GroupHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit, offset := utils.PageParams(c)

	groups, total, err := h.groups.ListByUser(userID, limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponsePaged(c, http.StatusOK, "My groups", groups, utils.NewPagination(page, limit, total))
}

// Get shows one group with its members.
func (h *GroupHandler) Get(c *gin.Context) {
	groupID := utils.StringToUint64(c.Param("id"))

	group, err := h.groups.GetDetailed(groupID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Group", group)
}

// Join adds the caller to a draft group.
func (h *GroupHandler) Join(c *gin.Context) {
	userID, _ := currentUser(c)
	groupID := utils.StringToUint64(c.Param("id"))

	member, err := h.groups.AddMember(groupID, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Joined group", member)
}

// Activate starts the rotation.
func (h *GroupHandler) Activate(c *gin.Context) {
	userID, role := currentUser(c)
	groupID := utils.StringToUint64(c.Param("id"))

	group, err := h.groups.Activate(groupID, userID, role == models.RoleAdmin)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Group activated", group)
}

// Contribute records the caller's payment for the current cycle. When the
// cycle fills up the payout fires inside the same call.
func (h *GroupHandler) Contribute(c *gin.Context) {
	userID, _ := currentUser(c)
	groupID := utils.StringToUint64(c.Param("id"))

	var input models.ContributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return
	}

	contribution, payout, err := h.groups.RecordContribution(groupID, userID, input.Amount)
	if err != nil {
		serviceError(c, err)
		return
	}

	if payout != nil {
		h.notifyPayout(groupID, payout)
	}
	utils.APIResponse(c, http.StatusCreated, true, "Contribution recorded", gin.H{
		"contribution": contribution,
		"payout":       payout,
	})
}

// Status reports cycle readiness and per-member contribution state.
func (h *GroupHandler) Status(c *gin.Context) {
	groupID := utils.StringToUint64(c.Param("id"))

	status, err := h.groups.Status(groupID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Cycle status", status)
}

// Cancel stops the group.
func (h *GroupHandler) Cancel(c *gin.Context) {
	userID, role := currentUser(c)
	groupID := utils.StringToUint64(c.Param("id"))

	group, err := h.groups.Cancel(groupID, userID, role == models.RoleAdmin)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Group cancelled", group)
}

// notifyPayout pushes to the recipient of a payout that just fired. Best
// effort.
func (h *GroupHandler) notifyPayout(groupID uint64, payout *services.PayoutResult) {
	var user models.User
	if err := h.db.First(&user, payout.RecipientUserID).Error; err != nil {
		return
	}
	go utils.SendNotification(user.FCMToken, "Group payout",
		fmt.Sprintf("Your savings group payout of %.2f has been credited to your wallet.", payout.Amount),
		map[string]string{
			"group_id": fmt.Sprintf("%d", groupID),
			"type":     "group_payout",
		})
}

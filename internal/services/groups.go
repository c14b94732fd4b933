package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"insurewise-backend/internal/metrics"
	"insurewise-backend/internal/models"
)

// GroupService runs the rotating fund. Per cycle every active member pays
// the fixed contribution; when the count of paid contributions for the
// current cycle equals the active member count, the pool pays out to the
// lowest-position member who has not received yet, and the cycle advances.
type GroupService struct {
	db      *gorm.DB
	wallets *WalletService
}

func NewGroupService(db *gorm.DB, wallets *WalletService) *GroupService {
	return &GroupService{db: db, wallets: wallets}
}

// Create opens a draft group with the creator as member #1.
func (s *GroupService) Create(userID uint64, input models.CreateGroupInput) (*models.GroupSavings, error) {
	group := models.GroupSavings{
		Name:               input.Name,
		Description:        input.Description,
		CreatorID:          userID,
		ContributionAmount: input.ContributionAmount,
		Frequency:          input.Frequency,
		MaxMembers:         input.MaxMembers,
		CurrentCycle:       1,
		Status:             models.GroupDraft,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: group.ID, UserID: userID, Position: 1, IsActive: true}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// AddMember joins a user to a draft group at the next position.
func (s *GroupService) AddMember(groupID, userID uint64) (*models.GroupMember, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.Status != models.GroupDraft {
		return nil, ErrGroupNotDraft
	}

	var member models.GroupMember
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var activeCount int64
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND is_active = ?", groupID, true).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if int(activeCount) >= group.MaxMembers {
			return ErrGroupFull
		}

		var maxPosition int
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ?", groupID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}

		member = models.GroupMember{
			GroupID:  groupID,
			UserID:   userID,
			Position: maxPosition + 1,
			IsActive: true,
		}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Activate starts the rotation: draft -> active, first cycle dates set from
// now.
func (s *GroupService) Activate(groupID, userID uint64, isAdmin bool) (*models.GroupSavings, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != userID && !isAdmin {
		return nil, ErrNotGroupCreator
	}
	if group.Status != models.GroupDraft {
		return nil, ErrGroupNotDraft
	}

	var activeCount int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND is_active = ?", groupID, true).
		Count(&activeCount).Error; err != nil {
		return nil, err
	}
	if activeCount < 2 {
		return nil, ErrNotEnoughMembers
	}

	next := nextDate(group.Frequency)
	group.Status = models.GroupActive
	group.NextContributionDate = &next
	group.NextPayoutDate = &next
	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// Cancel stops a draft or active group.
func (s *GroupService) Cancel(groupID, userID uint64, isAdmin bool) (*models.GroupSavings, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != userID && !isAdmin {
		return nil, ErrNotGroupCreator
	}
	if group.Status != models.GroupDraft && group.Status != models.GroupActive {
		return nil, ErrGroupNotActive
	}

	group.Status = models.GroupCancelled
	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// PayoutResult reports a payout that fired at the end of a cycle.
type PayoutResult struct {
	RecipientUserID uint64  `json:"recipient_user_id"`
	Amount          float64 `json:"amount"`
	Cycle           int     `json:"cycle"`
	Completed       bool    `json:"completed"`
}

// RecordContribution takes a member's payment for the current cycle out of
// their wallet and, when the cycle is fully paid, triggers the payout. The
// whole flow runs in one DB transaction so a duplicate submit or failed
// debit leaves nothing behind.
func (s *GroupService) RecordContribution(groupID, userID uint64, amount float64) (*models.Contribution, *PayoutResult, error) {
	var contribution models.Contribution
	var payout *PayoutResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.GroupSavings
		if err := tx.First(&group, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if group.Status != models.GroupActive {
			return ErrGroupNotActive
		}

		// Exact amount only. No partial or over payment.
		if amount != group.ContributionAmount {
			return ErrWrongAmount
		}

		var member models.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ? AND is_active = ?", groupID, userID, true).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Contribution{}).
			Where("group_id = ? AND member_id = ? AND cycle = ? AND status = ?",
				groupID, member.ID, group.CurrentCycle, models.ContributionPaid).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateContribution
		}

		if _, err := s.wallets.WithTx(tx).Debit(userID, amount, models.CategoryGroupContribution,
			"contribution to "+group.Name, ""); err != nil {
			return err
		}

		now := time.Now()
		contribution = models.Contribution{
			GroupID:  groupID,
			MemberID: member.ID,
			Cycle:    group.CurrentCycle,
			UserID:   userID,
			Amount:   amount,
			Status:   models.ContributionPaid,
			DueDate:  group.NextContributionDate,
			PaidAt:   &now,
		}
		if err := tx.Create(&contribution).Error; err != nil {
			// The compound unique index backs up the existence check above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateContribution
			}
			return err
		}

		var payoutErr error
		payout, payoutErr = s.maybePayout(tx, &group)
		return payoutErr
	})
	if err != nil {
		return nil, nil, err
	}
	return &contribution, payout, nil
}

// maybePayout pays the cycle pool once every active member has contributed,
// then advances the cycle or completes the group.
func (s *GroupService) maybePayout(tx *gorm.DB, group *models.GroupSavings) (*PayoutResult, error) {
	var activeCount int64
	if err := tx.Model(&models.GroupMember{}).
		Where("group_id = ? AND is_active = ?", group.ID, true).
		Count(&activeCount).Error; err != nil {
		return nil, err
	}

	var paidCount int64
	if err := tx.Model(&models.Contribution{}).
		Where("group_id = ? AND cycle = ? AND status = ?", group.ID, group.CurrentCycle, models.ContributionPaid).
		Count(&paidCount).Error; err != nil {
		return nil, err
	}

	if paidCount != activeCount {
		return nil, nil
	}

	// Unanimous: pick the lowest-position active member still owed a payout.
	var recipient models.GroupMember
	err := tx.Where("group_id = ? AND is_active = ? AND received_payout_at IS NULL", group.ID, true).
		Order("position asc").
		First(&recipient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Everyone already received; nothing left to rotate.
			group.Status = models.GroupCompleted
			return nil, tx.Save(group).Error
		}
		return nil, err
	}

	pot := group.ContributionAmount * float64(activeCount)
	if _, err := s.wallets.WithTx(tx).Credit(recipient.UserID, pot, models.CategoryGroupPayout,
		"cycle payout from "+group.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	recipient.ReceivedPayoutAt = &now
	if err := tx.Save(&recipient).Error; err != nil {
		return nil, err
	}

	metrics.GroupPayouts.Inc()
	log.Info().Uint64("group_id", group.ID).Uint64("recipient", recipient.UserID).
		Float64("amount", pot).Int("cycle", group.CurrentCycle).Msg("group payout")

	result := &PayoutResult{
		RecipientUserID: recipient.UserID,
		Amount:          pot,
		Cycle:           group.CurrentCycle,
	}

	// Done when no active member is still waiting.
	var waiting int64
	if err := tx.Model(&models.GroupMember{}).
		Where("group_id = ? AND is_active = ? AND received_payout_at IS NULL", group.ID, true).
		Count(&waiting).Error; err != nil {
		return nil, err
	}
	if waiting == 0 {
		group.Status = models.GroupCompleted
		group.NextContributionDate = nil
		group.NextPayoutDate = nil
		result.Completed = true
	} else {
		// Dates recompute from now, not from the previous due date, so a
		// late payout drifts the schedule forward. Kept as-is.
		group.CurrentCycle++
		next := nextDate(group.Frequency)
		group.NextContributionDate = &next
		group.NextPayoutDate = &next
	}
	return result, tx.Save(group).Error
}

func nextDate(frequency string) time.Time {
	if frequency == models.FrequencyWeekly {
		return time.Now().AddDate(0, 0, 7)
	}
	return time.Now().AddDate(0, 1, 0)
}

// MemberCycleStatus is one row of a group's cycle report.
type MemberCycleStatus struct {
	UserID   uint64                    `json:"user_id"`
	Position int                       `json:"position"`
	Status   models.ContributionStatus `json:"status"`
	PaidAt   *time.Time                `json:"paid_at,omitempty"`
	Received bool                      `json:"received_payout"`
}

// CycleStatus reports readiness of the current cycle. Overdue is computed
// here from the due date, never written back.
type CycleStatus struct {
	GroupID       uint64              `json:"group_id"`
	CurrentCycle  int                 `json:"current_cycle"`
	ActiveMembers int                 `json:"active_members"`
	PaidCount     int                 `json:"paid_count"`
	Ready         bool                `json:"ready"`
	Members       []MemberCycleStatus `json:"members"`
}

func (s *GroupService) Status(groupID uint64) (*CycleStatus, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}

	var members []models.GroupMember
	if err := s.db.Where("group_id = ? AND is_active = ?", groupID, true).
		Order("position asc").Find(&members).Error; err != nil {
		return nil, err
	}

	var contributions []models.Contribution
	if err := s.db.Where("group_id = ? AND cycle = ?", groupID, group.CurrentCycle).
		Find(&contributions).Error; err != nil {
		return nil, err
	}

	paidByMember := make(map[uint64]*models.Contribution, len(contributions))
	for i := range contributions {
		if contributions[i].Status == models.ContributionPaid {
			paidByMember[contributions[i].MemberID] = &contributions[i]
		}
	}

	status := CycleStatus{
		GroupID:       group.ID,
		CurrentCycle:  group.CurrentCycle,
		ActiveMembers: len(members),
	}
	for _, m := range members {
		row := MemberCycleStatus{
			UserID:   m.UserID,
			Position: m.Position,
			Received: m.ReceivedPayoutAt != nil,
			Status:   models.ContributionPending,
		}
		if c, ok := paidByMember[m.ID]; ok {
			row.Status = models.ContributionPaid
			row.PaidAt = c.PaidAt
			status.PaidCount++
		} else if group.NextContributionDate != nil && time.Now().After(*group.NextContributionDate) {
			row.Status = models.ContributionOverdue
		}
		status.Members = append(status.Members, row)
	}
	status.Ready = status.PaidCount == status.ActiveMembers && status.ActiveMembers > 0

	return &status, nil
}

func (s *GroupService) Get(groupID uint64) (*models.GroupSavings, error) {
	var group models.GroupSavings
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetDetailed preloads members ordered by position.
func (s *GroupService) GetDetailed(groupID uint64) (*models.GroupSavings, error) {
	var group models.GroupSavings
	err := s.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Members.User").
		First(&group, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// ListByUser returns groups the user belongs to.
func (s *GroupService) ListByUser(userID uint64, limit, offset int) ([]models.GroupSavings, int64, error) {
	var groups []models.GroupSavings
	var total int64

	sub := s.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID)
	q := s.db.Model(&models.GroupSavings{}).Where("id IN (?)", sub)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&groups).Error
	return groups, total, err
}

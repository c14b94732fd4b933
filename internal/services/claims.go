package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"insurewise-backend/internal/metrics"
	"insurewise-backend/internal/models"
)

// ClaimService drives the claim lifecycle:
//
//	pending -> under_review -> approved | declined
//	pending -> approved | declined
//
// 'paid' exists as a status but settlement is handled outside this service.
type ClaimService struct {
	db *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// Submit files a new claim and kicks off the advisory analysis in the
// background. Analysis only annotates the claim, it never changes status.
func (s *ClaimService) Submit(userID uint64, input models.SubmitClaimInput) (*models.Claim, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	claim := models.Claim{
		UserID:         userID,
		SubscriptionID: input.SubscriptionID,
		ClaimType:      input.ClaimType,
		Description:    input.Description,
		Amount:         input.Amount,
		Status:         models.ClaimPending,
	}
	if err := s.db.Create(&claim).Error; err != nil {
		return nil, err
	}

	metrics.ClaimsSubmitted.Inc()
	go s.analyze(claim.ID)

	return &claim, nil
}

// analyze attaches a risk score and recommendation. Best effort: failures
// are logged and the claim proceeds through review regardless.
func (s *ClaimService) analyze(claimID uint64) {
	var claim models.Claim
	if err := s.db.First(&claim, claimID).Error; err != nil {
		log.Error().Err(err).Uint64("claim_id", claimID).Msg("claim analysis: fetch failed")
		return
	}

	score := riskScore(&claim)
	recommendation := "approve"
	if score >= 0.7 {
		recommendation = "review"
	}

	err := s.db.Model(&claim).Updates(map[string]interface{}{
		"risk_score":     score,
		"recommendation": recommendation,
	}).Error
	if err != nil {
		log.Error().Err(err).Uint64("claim_id", claimID).Msg("claim analysis: update failed")
		return
	}
	log.Info().Uint64("claim_id", claimID).Float64("risk_score", score).Msg("claim analysis complete")
}

// riskScore is a coarse heuristic: bigger claims and claims without a
// backing subscription score higher.
func riskScore(claim *models.Claim) float64 {
	score := 0.2
	switch {
	case claim.Amount >= 500000:
		score += 0.5
	case claim.Amount >= 100000:
		score += 0.3
	case claim.Amount >= 50000:
		score += 0.1
	}
	if claim.SubscriptionID == nil {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Review moves a pending claim under review. Admin only, gated upstream.
func (s *ClaimService) Review(adminID, claimID uint64) (*models.Claim, error) {
	claim, err := s.Get(claimID)
	if err != nil {
		return nil, err
	}

	if claim.Status != models.ClaimPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	claim.Status = models.ClaimUnderReview
	claim.ReviewedBy = &adminID
	claim.ReviewedAt = &now
	if err := s.db.Save(claim).Error; err != nil {
		return nil, err
	}
	return claim, nil
}

// Approve accepts a claim from pending or under_review. The approved amount
// defaults to the claim amount and may not exceed it.
func (s *ClaimService) Approve(adminID, claimID uint64, input models.ApproveClaimInput) (*models.Claim, error) {
	claim, err := s.Get(claimID)
	if err != nil {
		return nil, err
	}

	if claim.Status != models.ClaimPending && claim.Status != models.ClaimUnderReview {
		return nil, ErrInvalidTransition
	}

	approved := claim.Amount
	if input.ApprovedAmount != nil {
		if *input.ApprovedAmount <= 0 {
			return nil, ErrInvalidAmount
		}
		if *input.ApprovedAmount > claim.Amount {
			return nil, ErrApprovedAmountHigh
		}
		approved = *input.ApprovedAmount
	}

	now := time.Now()
	claim.Status = models.ClaimApproved
	claim.ApprovedAmount = &approved
	claim.ReviewedBy = &adminID
	claim.ReviewedAt = &now
	claim.ReviewNotes = input.Notes
	if err := s.db.Save(claim).Error; err != nil {
		return nil, err
	}

	metrics.ClaimsDecided.WithLabelValues("approved").Inc()
	log.Info().Uint64("claim_id", claimID).Float64("approved_amount", approved).Msg("claim approved")
	return claim, nil
}

// Decline rejects a claim from pending or under_review. Notes are mandatory
// so the claimant always gets a reason.
func (s *ClaimService) Decline(adminID, claimID uint64, notes string) (*models.Claim, error) {
	if notes == "" {
		return nil, ErrNotesRequired
	}

	claim, err := s.Get(claimID)
	if err != nil {
		return nil, err
	}

	if claim.Status != models.ClaimPending && claim.Status != models.ClaimUnderReview {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	claim.Status = models.ClaimDeclined
	claim.ReviewedBy = &adminID
	claim.ReviewedAt = &now
	claim.ReviewNotes = notes
	if err := s.db.Save(claim).Error; err != nil {
		return nil, err
	}

	metrics.ClaimsDecided.WithLabelValues("declined").Inc()
	log.Info().Uint64("claim_id", claimID).Msg("claim declined")
	return claim, nil
}

func (s *ClaimService) Get(claimID uint64) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.First(&claim, claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &claim, nil
}

func (s *ClaimService) ListByUser(userID uint64, limit, offset int) ([]models.Claim, int64, error) {
	var claims []models.Claim
	var total int64

	q := s.db.Model(&models.Claim{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&claims).Error
	return claims, total, err
}

// ListAll is the admin view, optionally filtered by status.
func (s *ClaimService) ListAll(status string, limit, offset int) ([]models.Claim, int64, error) {
	var claims []models.Claim
	var total int64

	q := s.db.Model(&models.Claim{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&claims).Error
	return claims, total, err
}

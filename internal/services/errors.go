package services

import "errors"

// Operational errors. Handlers map these to 4xx responses; anything else is
// logged and answered as a generic 500.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrWalletInactive     = errors.New("wallet is not active")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrTransactionMissing = errors.New("transaction not found")
	ErrAlreadyProcessed   = errors.New("transaction already processed")

	ErrClaimNotFound      = errors.New("claim not found")
	ErrInvalidTransition  = errors.New("claim cannot move to the requested status from its current status")
	ErrNotesRequired      = errors.New("decline requires review notes")
	ErrApprovedAmountHigh = errors.New("approved amount cannot exceed the claim amount")

	ErrGroupNotFound         = errors.New("group not found")
	ErrGroupNotDraft         = errors.New("group is not accepting members")
	ErrGroupNotActive        = errors.New("group is not active")
	ErrGroupFull             = errors.New("group is full")
	ErrDuplicateMember       = errors.New("user is already a member of this group")
	ErrNotMember             = errors.New("user is not an active member of this group")
	ErrNotEnoughMembers      = errors.New("group needs at least two active members to start")
	ErrWrongAmount           = errors.New("contribution must equal the group contribution amount exactly")
	ErrDuplicateContribution = errors.New("contribution already recorded for this cycle")
	ErrNotGroupCreator       = errors.New("only the group creator can do this")

	ErrPlanNotFound         = errors.New("insurance plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

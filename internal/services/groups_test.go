package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"insurewise-backend/internal/models"
)

// seedGroup creates an active group with n funded members and returns the
// group plus its members in join order.
func seedGroup(t *testing.T, db *gorm.DB, svc *GroupService, n int, amount float64, balance float64) (*models.GroupSavings, []*models.User) {
	t.Helper()

	users := make([]*models.User, n)
	for i := range users {
		users[i] = seedUser(t, db, balance)
	}

	group, err := svc.Create(users[0].ID, models.CreateGroupInput{
		Name:               "test ajo",
		ContributionAmount: amount,
		Frequency:          models.FrequencyWeekly,
		MaxMembers:         n,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	for _, u := range users[1:] {
		if _, err := svc.AddMember(group.ID, u.ID); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	if _, err := svc.Activate(group.ID, users[0].ID, false); err != nil {
		t.Fatalf("activate: %v", err)
	}
	return group, users
}

func TestAddMemberAssignsSequentialPositions(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))

	creator := seedUser(t, db, 0)
	group, err := svc.Create(creator.ID, models.CreateGroupInput{
		Name: "positions", ContributionAmount: 1000, Frequency: models.FrequencyWeekly, MaxMembers: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for want := 2; want <= 4; want++ {
		u := seedUser(t, db, 0)
		member, err := svc.AddMember(group.ID, u.ID)
		if err != nil {
			t.Fatalf("add member: %v", err)
		}
		if member.Position != want {
			t.Errorf("position = %d, want %d", member.Position, want)
		}
	}
}

func TestAddMemberRejectsFullGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))

	creator := seedUser(t, db, 0)
	group, _ := svc.Create(creator.ID, models.CreateGroupInput{
		Name: "full", ContributionAmount: 1000, Frequency: models.FrequencyWeekly, MaxMembers: 2,
	})
	svc.AddMember(group.ID, seedUser(t, db, 0).ID)

	if _, err := svc.AddMember(group.ID, seedUser(t, db, 0).ID); !errors.Is(err, ErrGroupFull) {
		t.Fatalf("err = %v, want ErrGroupFull", err)
	}
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))

	creator := seedUser(t, db, 0)
	group, _ := svc.Create(creator.ID, models.CreateGroupInput{
		Name: "dup", ContributionAmount: 1000, Frequency: models.FrequencyWeekly, MaxMembers: 5,
	})

	if _, err := svc.AddMember(group.ID, creator.ID); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("err = %v, want ErrDuplicateMember", err)
	}
}

func TestAddMemberRejectsNonDraftGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, _ := seedGroup(t, db, svc, 2, 1000, 0)

	if _, err := svc.AddMember(group.ID, seedUser(t, db, 0).ID); !errors.Is(err, ErrGroupNotDraft) {
		t.Fatalf("err = %v, want ErrGroupNotDraft", err)
	}
}

func TestActivateNeedsTwoMembers(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))

	creator := seedUser(t, db, 0)
	group, _ := svc.Create(creator.ID, models.CreateGroupInput{
		Name: "solo", ContributionAmount: 1000, Frequency: models.FrequencyWeekly, MaxMembers: 5,
	})

	if _, err := svc.Activate(group.ID, creator.ID, false); !errors.Is(err, ErrNotEnoughMembers) {
		t.Fatalf("err = %v, want ErrNotEnoughMembers", err)
	}
}

func TestActivateOnlyByCreator(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))

	creator := seedUser(t, db, 0)
	other := seedUser(t, db, 0)
	group, _ := svc.Create(creator.ID, models.CreateGroupInput{
		Name: "guard", ContributionAmount: 1000, Frequency: models.FrequencyWeekly, MaxMembers: 5,
	})
	svc.AddMember(group.ID, other.ID)

	if _, err := svc.Activate(group.ID, other.ID, false); !errors.Is(err, ErrNotGroupCreator) {
		t.Fatalf("err = %v, want ErrNotGroupCreator", err)
	}
	// An admin may activate on the creator's behalf.
	if _, err := svc.Activate(group.ID, other.ID, true); err != nil {
		t.Fatalf("admin activate: %v", err)
	}
}

func TestContributionMustMatchExactAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, users := seedGroup(t, db, svc, 2, 10000, 50000)

	for _, amount := range []float64{9999, 10001, 5000} {
		if _, _, err := svc.RecordContribution(group.ID, users[0].ID, amount); !errors.Is(err, ErrWrongAmount) {
			t.Errorf("amount %v err = %v, want ErrWrongAmount", amount, err)
		}
	}
}

func TestContributionDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, users := seedGroup(t, db, svc, 3, 10000, 50000)

	if _, _, err := svc.RecordContribution(group.ID, users[0].ID, 10000); err != nil {
		t.Fatalf("first contribution: %v", err)
	}
	if _, _, err := svc.RecordContribution(group.ID, users[0].ID, 10000); !errors.Is(err, ErrDuplicateContribution) {
		t.Fatalf("err = %v, want ErrDuplicateContribution", err)
	}

	// The rejected duplicate must not have debited the wallet again.
	if got := walletBalance(t, db, users[0].ID); got != 40000 {
		t.Errorf("balance = %v, want 40000", got)
	}
}

func TestContributionRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, _ := seedGroup(t, db, svc, 2, 10000, 50000)
	outsider := seedUser(t, db, 50000)

	if _, _, err := svc.RecordContribution(group.ID, outsider.ID, 10000); !errors.Is(err, ErrNotMember) {
		t.Fatalf("err = %v, want ErrNotMember", err)
	}
}

func TestContributionInsufficientFundsLeavesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, users := seedGroup(t, db, svc, 2, 10000, 0)

	if _, _, err := svc.RecordContribution(group.ID, users[0].ID, 10000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	var count int64
	db.Model(&models.Contribution{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 0 {
		t.Errorf("contributions = %d, want 0 after failed debit", count)
	}
}

// TestRotationScenario runs a full rotation: 3 members at 10000 per cycle.
// After all contribute, 30000 goes to the lowest position and the cycle
// advances; three cycles complete the group with every member paid once.
func TestRotationScenario(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	svc := NewGroupService(db, wallets)
	group, users := seedGroup(t, db, svc, 3, 10000, 100000)

	// Cycle 1: first two contributions do not trigger anything.
	for _, u := range users[:2] {
		_, payout, err := svc.RecordContribution(group.ID, u.ID, 10000)
		if err != nil {
			t.Fatalf("contribute: %v", err)
		}
		if payout != nil {
			t.Fatalf("payout fired before cycle was full")
		}
	}

	// The third contribution closes the cycle.
	_, payout, err := svc.RecordContribution(group.ID, users[2].ID, 10000)
	if err != nil {
		t.Fatalf("closing contribution: %v", err)
	}
	if payout == nil {
		t.Fatal("payout did not fire on unanimous cycle")
	}
	if payout.RecipientUserID != users[0].ID {
		t.Errorf("recipient = %d, want lowest position %d", payout.RecipientUserID, users[0].ID)
	}
	if payout.Amount != 30000 {
		t.Errorf("payout = %v, want 30000", payout.Amount)
	}

	refreshed, _ := svc.Get(group.ID)
	if refreshed.CurrentCycle != 2 {
		t.Errorf("cycle = %d, want 2", refreshed.CurrentCycle)
	}
	// Recipient paid 10000 in and took 30000 out.
	if got := walletBalance(t, db, users[0].ID); got != 120000 {
		t.Errorf("recipient balance = %v, want 120000", got)
	}

	// Cycles 2 and 3: rotation reaches everyone exactly once, then the group
	// completes.
	wantRecipients := []uint64{users[1].ID, users[2].ID}
	for cycle := 0; cycle < 2; cycle++ {
		var last *PayoutResult
		for _, u := range users {
			_, p, err := svc.RecordContribution(group.ID, u.ID, 10000)
			if err != nil {
				t.Fatalf("cycle %d contribute: %v", cycle+2, err)
			}
			if p != nil {
				last = p
			}
		}
		if last == nil {
			t.Fatalf("cycle %d payout did not fire", cycle+2)
		}
		if last.RecipientUserID != wantRecipients[cycle] {
			t.Errorf("cycle %d recipient = %d, want %d", cycle+2, last.RecipientUserID, wantRecipients[cycle])
		}
	}

	final, _ := svc.Get(group.ID)
	if final.Status != models.GroupCompleted {
		t.Errorf("status = %s, want completed", final.Status)
	}

	var unpaid int64
	db.Model(&models.GroupMember{}).
		Where("group_id = ? AND received_payout_at IS NULL", group.ID).
		Count(&unpaid)
	if unpaid != 0 {
		t.Errorf("%d members never received a payout", unpaid)
	}

	// Money is conserved: everyone paid 30000 in and took 30000 out.
	for i, u := range users {
		if got := walletBalance(t, db, u.ID); got != 100000 {
			t.Errorf("member %d balance = %v, want 100000", i, got)
		}
	}
}

func TestStatusReportsOverdue(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, users := seedGroup(t, db, svc, 2, 10000, 50000)

	past := time.Now().Add(-48 * time.Hour)
	db.Model(&models.GroupSavings{}).Where("id = ?", group.ID).Update("next_contribution_date", past)

	if _, _, err := svc.RecordContribution(group.ID, users[0].ID, 10000); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	status, err := svc.Status(group.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Ready {
		t.Error("cycle reported ready with one contribution outstanding")
	}
	if status.PaidCount != 1 {
		t.Errorf("paid count = %d, want 1", status.PaidCount)
	}

	var sawOverdue bool
	for _, m := range status.Members {
		if m.UserID == users[1].ID && m.Status == models.ContributionOverdue {
			sawOverdue = true
		}
	}
	if !sawOverdue {
		t.Error("outstanding member past the due date not reported overdue")
	}

	// Overdue is a read-side view only; nothing is persisted.
	var persisted int64
	db.Model(&models.Contribution{}).Where("status = ?", models.ContributionOverdue).Count(&persisted)
	if persisted != 0 {
		t.Errorf("%d overdue rows persisted, want 0", persisted)
	}
}

func TestCancelGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewWalletService(db))
	group, users := seedGroup(t, db, svc, 2, 10000, 0)

	if _, err := svc.Cancel(group.ID, users[1].ID, false); !errors.Is(err, ErrNotGroupCreator) {
		t.Fatalf("err = %v, want ErrNotGroupCreator", err)
	}

	cancelled, err := svc.Cancel(group.ID, users[0].ID, false)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.GroupCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	if _, _, err := svc.RecordContribution(group.ID, users[0].ID, 10000); !errors.Is(err, ErrGroupNotActive) {
		t.Fatalf("contribute after cancel err = %v, want ErrGroupNotActive", err)
	}
}

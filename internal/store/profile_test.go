package store

import (
	"testing"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
)

func setupProfileTest(t *testing.T) (*UserStore, *ProfileStore, string) {
	t.Helper()
	db := setupTestDB(t)
	us := NewUserStore(db)
	ps := NewProfileStore(db)
	u, err := us.Create("alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return us, ps, u.ID
}

func TestProfileDefaultsToFree(t *testing.T) {
	_, ps, userID := setupProfileTest(t)

	p, err := ps.Create(userID)
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if p.Membership != model.MembershipFree {
		t.Errorf("membership = %q, want %q", p.Membership, model.MembershipFree)
	}
	if p.IsMember() {
		t.Error("free profile should not be a member")
	}
}

func TestProfileMembershipUpgrade(t *testing.T) {
	_, ps, userID := setupProfileTest(t)

	if _, err := ps.Create(userID); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := ps.UpdateMembership(userID, model.MembershipPro); err != nil {
		t.Fatalf("update membership: %v", err)
	}

	p, err := ps.GetByUserID(userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !p.IsMember() {
		t.Error("pro profile should be a member")
	}
}

func TestProfileStripeIDs(t *testing.T) {
	_, ps, userID := setupProfileTest(t)

	if _, err := ps.Create(userID); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := ps.SetStripeCustomerID(userID, "cus_123"); err != nil {
		t.Fatalf("set customer id: %v", err)
	}
	subID := "sub_456"
	if err := ps.SetStripeSubscriptionID(userID, &subID); err != nil {
		t.Fatalf("set subscription id: %v", err)
	}

	p, err := ps.GetByStripeCustomerID("cus_123")
	if err != nil {
		t.Fatalf("get by customer id: %v", err)
	}
	if p == nil || p.UserID != userID {
		t.Fatalf("profile = %+v, want user %q", p, userID)
	}
	if p.StripeSubscriptionID == nil || *p.StripeSubscriptionID != "sub_456" {
		t.Errorf("subscription id = %v, want sub_456", p.StripeSubscriptionID)
	}

	// Clearing the subscription keeps the customer.
	if err := ps.SetStripeSubscriptionID(userID, nil); err != nil {
		t.Fatalf("clear subscription id: %v", err)
	}
	p, _ = ps.GetByUserID(userID)
	if p.StripeSubscriptionID != nil {
		t.Errorf("subscription id = %v, want nil", p.StripeSubscriptionID)
	}
}

func TestProfileCascadeOnUserDelete(t *testing.T) {
	us, ps, userID := setupProfileTest(t)

	if _, err := ps.Create(userID); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := us.Delete(userID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	p, err := ps.GetByUserID(userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != nil {
		t.Errorf("expected profile removed with user, got %+v", p)
	}
}

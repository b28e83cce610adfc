package store

import "testing"

func TestUserCreateAndLookup(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}

	byID, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if byID == nil || byID.Email != "alice@example.com" {
		t.Errorf("byID = %+v, want email alice@example.com", byID)
	}

	byEmail, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("byEmail = %+v, want id %q", byEmail, u.ID)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("alice@example.com", "hash2"); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestUserNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByEmail("missing@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing user, got %+v", u)
	}
}

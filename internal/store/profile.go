package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var custID, subID sql.NullString
	err := scanner.Scan(&p.UserID, &p.Membership, &custID, &subID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if custID.Valid {
		p.StripeCustomerID = &custID.String
	}
	if subID.Valid {
		p.StripeSubscriptionID = &subID.String
	}
	return &p, nil
}

const profileCols = `user_id, membership, stripe_customer_id, stripe_subscription_id, created_at, updated_at`

// Create inserts a free-tier profile for the user.
func (s *ProfileStore) Create(userID string) (*model.Profile, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, membership, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		userID, model.MembershipFree, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return s.GetByUserID(userID)
}

func (s *ProfileStore) GetByUserID(userID string) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) GetByStripeCustomerID(customerID string) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE stripe_customer_id = ?`, customerID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by customer: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) UpdateMembership(userID, membership string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET membership = ?, updated_at = ? WHERE user_id = ?`,
		membership, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

func (s *ProfileStore) SetStripeCustomerID(userID, customerID string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET stripe_customer_id = ?, updated_at = ? WHERE user_id = ?`,
		customerID, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("set stripe customer id: %w", err)
	}
	return nil
}

func (s *ProfileStore) SetStripeSubscriptionID(userID string, subscriptionID *string) error {
	var v sql.NullString
	if subscriptionID != nil {
		v = sql.NullString{String: *subscriptionID, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE profiles SET stripe_subscription_id = ?, updated_at = ? WHERE user_id = ?`,
		v, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("set stripe subscription id: %w", err)
	}
	return nil
}

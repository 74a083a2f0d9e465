package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"waygen/internal/models"
)

// CreateUser inserts an account record with optional profile fields.
// Authentication is handled elsewhere; this only covers the record the
// chat workflow reads profiles from.
func (s *Service) CreateUser(ctx context.Context, email, fullName string, profile models.Profile) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, full_name, country, education, interest, budget, time_available, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		email, fullName,
		nullable(profile.Country), nullable(profile.Education), nullable(profile.Interest),
		nullable(profile.Budget), nullable(profile.TimeAvailable), now,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return &models.User{
		ID:            id,
		Email:         email,
		FullName:      fullName,
		Country:       profile.Country,
		Education:     profile.Education,
		Interest:      profile.Interest,
		Budget:        profile.Budget,
		TimeAvailable: profile.TimeAvailable,
		CreatedAt:     now,
	}, nil
}

// GetUser fetches a user by id; sql.ErrNoRows when absent. Missing
// profile columns surface as empty strings, never an error.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var (
		user                                           models.User
		country, education, interest, budget, timeAvail sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, country, education, interest, budget, time_available, created_at
		 FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Email, &user.FullName, &country, &education, &interest, &budget, &timeAvail, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Country = country.String
	user.Education = education.String
	user.Interest = interest.String
	user.Budget = budget.String
	user.TimeAvailable = timeAvail.String
	return &user, nil
}

// ResolveProfile determines the profile used to shape the prompt.
// Authenticated callers get the profile off their user record (even if
// every field is empty); unknown ids degrade to no profile. Guests get
// their request fields, but only when at least one of country,
// education, or interest is set; budget and time_available alone do
// not trigger profile mode.
func (s *Service) ResolveProfile(ctx context.Context, userID *int64, guest models.Profile) (*models.Profile, error) {
	if userID != nil {
		user, err := s.GetUser(ctx, *userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, err
		}
		return &models.Profile{
			Country:       user.Country,
			Education:     user.Education,
			Interest:      user.Interest,
			Budget:        user.Budget,
			TimeAvailable: user.TimeAvailable,
		}, nil
	}

	if strings.TrimSpace(guest.Country) == "" &&
		strings.TrimSpace(guest.Education) == "" &&
		strings.TrimSpace(guest.Interest) == "" {
		return nil, nil
	}
	profile := guest
	return &profile, nil
}

func nullable(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

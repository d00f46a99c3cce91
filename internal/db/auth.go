package db

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

const userColumns = `id, email, hashed_password, name, created_at, updated_at`

// inserts new user into table, returns new user ID.
func (s *pgStore) CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error) {
	query := `
	INSERT INTO users (email, hashed_password, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id;
	`
	var newID int
	if err := s.db.QueryRowContext(ctx, query, email, hashedPassword, name).Scan(&newID); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to create user")
		return 0, translate(err)
	}
	return newID, nil
}

// fetches user by email. returns ErrNotFound if there is none.
func (s *pgStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		err = translate(err)
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Msg("failed to get user by email")
		}
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		err = translate(err)
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Int("user_id", id).Msg("failed to get user by id")
		}
		return nil, err
	}
	return &u, nil
}

// updates a user's email and name, and bumps updated_at.
func (s *pgStore) UpdateUserProfile(ctx context.Context, id int, email string, name *string) error {
	query := `
	UPDATE users
	SET email = $2,
	name = $3,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.ExecContext(ctx, query, id, email, name)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("failed to update user profile")
		return translate(err)
	}
	return expectRow(res)
}

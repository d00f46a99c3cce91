package db

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

const callerColumns = `id, name, country_code, phone, email, created_at, updated_at`

func (s *pgStore) CreateCaller(ctx context.Context, c model.Caller) (model.Caller, error) {
	var out model.Caller
	q := `
	INSERT INTO callers (name, country_code, phone, email, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING ` + callerColumns
	if err := s.db.GetContext(ctx, &out, q, c.Name, c.CountryCode, c.Phone, c.Email); err != nil {
		log.Error().Err(err).Str("name", c.Name).Msg("failed to create caller")
		return model.Caller{}, translate(err)
	}
	return out, nil
}

func (s *pgStore) GetCaller(ctx context.Context, id int) (model.Caller, error) {
	var c model.Caller
	if err := s.db.GetContext(ctx, &c, `SELECT `+callerColumns+` FROM callers WHERE id = $1`, id); err != nil {
		log.Error().Err(err).Int("caller_id", id).Msg("failed to get caller")
		return model.Caller{}, translate(err)
	}
	return c, nil
}

func (s *pgStore) ListCallers(ctx context.Context) ([]model.Caller, error) {
	callers := []model.Caller{}
	if err := s.db.SelectContext(ctx, &callers, `SELECT `+callerColumns+` FROM callers ORDER BY name, id`); err != nil {
		log.Error().Err(err).Msg("failed to list callers")
		return nil, err
	}
	return callers, nil
}

func (s *pgStore) UpdateCaller(ctx context.Context, c model.Caller) (model.Caller, error) {
	var out model.Caller
	q := `
	UPDATE callers
	SET name = $2,
	country_code = $3,
	phone = $4,
	email = $5,
	updated_at = now()
	WHERE id = $1
	RETURNING ` + callerColumns
	if err := s.db.GetContext(ctx, &out, q, c.ID, c.Name, c.CountryCode, c.Phone, c.Email); err != nil {
		log.Error().Err(err).Int("caller_id", c.ID).Msg("failed to update caller")
		return model.Caller{}, translate(err)
	}
	return out, nil
}

// DeleteCaller removes the caller and, by cascade, every schedule naming them.
func (s *pgStore) DeleteCaller(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM callers WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("caller_id", id).Msg("failed to delete caller")
		return err
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("failed to read rows affected")
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

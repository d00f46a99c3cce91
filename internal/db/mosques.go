package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

const mosqueColumns = `id, name, address, country_code, phone, created_at, updated_at`

func (s *pgStore) CreateMosque(ctx context.Context, m model.Mosque) (model.Mosque, error) {
	var out model.Mosque
	q := `
	INSERT INTO mosques (name, address, country_code, phone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING ` + mosqueColumns
	if err := s.db.GetContext(ctx, &out, q, m.Name, m.Address, m.CountryCode, m.Phone); err != nil {
		log.Error().Err(err).Str("name", m.Name).Msg("failed to create mosque")
		return model.Mosque{}, translate(err)
	}
	return out, nil
}

func (s *pgStore) GetMosque(ctx context.Context, id int) (model.Mosque, error) {
	var m model.Mosque
	if err := s.db.GetContext(ctx, &m, `SELECT `+mosqueColumns+` FROM mosques WHERE id = $1`, id); err != nil {
		log.Error().Err(err).Int("mosque_id", id).Msg("failed to get mosque")
		return model.Mosque{}, translate(err)
	}
	return m, nil
}

func (s *pgStore) ListMosques(ctx context.Context) ([]model.Mosque, error) {
	mosques := []model.Mosque{}
	if err := s.db.SelectContext(ctx, &mosques, `SELECT `+mosqueColumns+` FROM mosques ORDER BY name, id`); err != nil {
		log.Error().Err(err).Msg("failed to list mosques")
		return nil, err
	}
	return mosques, nil
}

func (s *pgStore) UpdateMosque(ctx context.Context, m model.Mosque) (model.Mosque, error) {
	var out model.Mosque
	q := `
	UPDATE mosques
	SET name = $2,
	address = $3,
	country_code = $4,
	phone = $5,
	updated_at = now()
	WHERE id = $1
	RETURNING ` + mosqueColumns
	if err := s.db.GetContext(ctx, &out, q, m.ID, m.Name, m.Address, m.CountryCode, m.Phone); err != nil {
		log.Error().Err(err).Int("mosque_id", m.ID).Msg("failed to update mosque")
		return model.Mosque{}, translate(err)
	}
	return out, nil
}

// DeleteMosque removes the mosque and, by cascade, its schedules.
func (s *pgStore) DeleteMosque(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mosques WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("mosque_id", id).Msg("failed to delete mosque")
		return err
	}
	return expectRow(res)
}

package store

import (
	"context"
	"fmt"

	"carpool/internal/database"
	"carpool/internal/model"
)

func GetConfig(ctx context.Context, db database.DB) (*model.Config, error) {
	row := db.QueryRow(ctx,
		`SELECT id, price_with_pass_cents, price_without_pass_cents, max_car_capacity
		 FROM config WHERE id = $1`,
		model.ConfigID,
	)
	c := &model.Config{}
	if err := row.Scan(
		&c.ID,
		&c.PriceWithPassCents,
		&c.PriceWithoutPassCents,
		&c.MaxCarCapacity,
	); err != nil {
		return nil, fmt.Errorf("GetConfig: %w", translate(err))
	}
	return c, nil
}

func UpdateConfig(ctx context.Context, db database.DB, c *model.Config) (*model.Config, error) {
	row := db.QueryRow(ctx,
		`UPDATE config
		 SET price_with_pass_cents = $1, price_without_pass_cents = $2, max_car_capacity = $3
		 WHERE id = $4
		 RETURNING id, price_with_pass_cents, price_without_pass_cents, max_car_capacity`,
		c.PriceWithPassCents,
		c.PriceWithoutPassCents,
		c.MaxCarCapacity,
		model.ConfigID,
	)
	out := &model.Config{}
	if err := row.Scan(
		&out.ID,
		&out.PriceWithPassCents,
		&out.PriceWithoutPassCents,
		&out.MaxCarCapacity,
	); err != nil {
		return nil, fmt.Errorf("UpdateConfig: %w", translate(err))
	}
	return out, nil
}

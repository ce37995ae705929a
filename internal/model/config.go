// File: internal/model/config.go
package model

// ConfigID is the primary key of the only config row.
const ConfigID = 1

type Config struct {
	ID                    int `db:"id" json:"id"`
	PriceWithPassCents    int `db:"price_with_pass_cents" json:"price_with_pass_cents"`
	PriceWithoutPassCents int `db:"price_without_pass_cents" json:"price_without_pass_cents"`
	MaxCarCapacity        int `db:"max_car_capacity" json:"max_car_capacity"`
}

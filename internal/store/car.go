package store

import (
	"context"
	"fmt"

	"carpool/internal/database"
	"carpool/internal/model"

	"github.com/jackc/pgx/v5"
)

const carColumns = `id, driver_id, capacity, created_at`

func CreateCar(ctx context.Context, db database.DB, c *model.Car) (*model.Car, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO cars (driver_id, capacity)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.DriverID,
		c.Capacity,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateCar: %w", translate(err))
	}
	return c, nil
}

func GetCarByID(ctx context.Context, db database.DB, carID int) (*model.Car, error) {
	row := db.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id = $1`,
		carID,
	)
	c := &model.Car{}
	if err := scanCar(row, c); err != nil {
		return nil, fmt.Errorf("GetCarByID: %w", translate(err))
	}
	return c, nil
}

func GetCarByDriverID(ctx context.Context, db database.DB, driverID int) (*model.Car, error) {
	row := db.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE driver_id = $1`,
		driverID,
	)
	c := &model.Car{}
	if err := scanCar(row, c); err != nil {
		return nil, fmt.Errorf("GetCarByDriverID: %w", translate(err))
	}
	return c, nil
}

// ListCars returns every car by ascending id.
func ListCars(ctx context.Context, db database.DB) ([]model.Car, error) {
	rows, err := db.Query(ctx,
		`SELECT `+carColumns+` FROM cars ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListCars: %w", translate(err))
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		var c model.Car
		if err := scanCar(rows, &c); err != nil {
			return nil, fmt.Errorf("ListCars: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCars: %w", translate(err))
	}
	return cars, nil
}

// DeleteCar removes the car; its passenger edges go with it (ON DELETE CASCADE).
func DeleteCar(ctx context.Context, db database.DB, carID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM cars WHERE id = $1`,
		carID,
	)
	if err != nil {
		return fmt.Errorf("DeleteCar: %w", translate(err))
	}
	return nil
}

func scanCar(row pgx.Row, c *model.Car) error {
	return row.Scan(
		&c.ID,
		&c.DriverID,
		&c.Capacity,
		&c.CreatedAt,
	)
}

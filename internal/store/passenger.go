package store

import (
	"context"
	"fmt"

	"carpool/internal/database"
	"carpool/internal/model"
)

// ListPassengers returns the riders seated in carID, ordered by name.
func ListPassengers(ctx context.Context, db database.DB, carID int) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT u.id, u.name, u.has_pass, u.is_driver, u.created_at
		 FROM car_passengers cp
		 JOIN users u ON u.id = cp.user_id
		 WHERE cp.car_id = $1
		 ORDER BY u.name, u.id`,
		carID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPassengers: %w", translate(err))
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("ListPassengers: %w", err)
	}
	return users, nil
}

func CountPassengers(ctx context.Context, db database.DB, carID int) (int, error) {
	var n int
	row := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM car_passengers WHERE car_id = $1`,
		carID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPassengers: %w", translate(err))
	}
	return n, nil
}

// IsAssigned reports whether userID already has a seat in any car.
func IsAssigned(ctx context.Context, db database.DB, userID int) (bool, error) {
	var ok bool
	row := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM car_passengers WHERE user_id = $1)`,
		userID,
	)
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("IsAssigned: %w", translate(err))
	}
	return ok, nil
}

// AddPassenger seats userID in carID only while a seat is free and reports
// false when the car was already full. Under READ COMMITTED two concurrent
// calls can both see the same count, so callers hold lock.SeatsKey.
func AddPassenger(ctx context.Context, db database.DB, carID, userID int) (bool, error) {
	tag, err := db.Exec(ctx,
		`INSERT INTO car_passengers (car_id, user_id)
		 SELECT c.id, $2 FROM cars c
		 WHERE c.id = $1
		   AND (SELECT COUNT(*) FROM car_passengers cp WHERE cp.car_id = c.id) + 1 < c.capacity`,
		carID,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("AddPassenger: %w", translate(err))
	}
	return tag.RowsAffected() == 1, nil
}

func RemovePassenger(ctx context.Context, db database.DB, carID, userID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM car_passengers WHERE car_id = $1 AND user_id = $2`,
		carID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("RemovePassenger: %w", translate(err))
	}
	return nil
}

// Purge wipes assignments, cars and users. Config is kept.
func Purge(ctx context.Context, db database.DB) error {
	_, err := db.Exec(ctx,
		`TRUNCATE car_passengers, cars, users RESTART IDENTITY`,
	)
	if err != nil {
		return fmt.Errorf("Purge: %w", translate(err))
	}
	return nil
}

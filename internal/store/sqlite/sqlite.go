// Package sqlite is the single-file store used when DB_DRIVER=sqlite.
// It mirrors the Postgres store query for query.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carpool/internal/apperr"
	"carpool/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const userColumns = `id, name, has_pass, is_driver, created_at`

const carColumns = `id, driver_id, capacity, created_at`

const unassignedRidersWhere = `
	WHERE u.is_driver = 0
	  AND NOT EXISTS (SELECT 1 FROM car_passengers cp WHERE cp.user_id = u.id)
	  AND NOT EXISTS (SELECT 1 FROM cars c WHERE c.driver_id = u.id)`

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) GetConfig(ctx context.Context) (*model.Config, error) {
	c := &model.Config{}
	err := s.db.GetContext(ctx, c,
		`SELECT id, price_with_pass_cents, price_without_pass_cents, max_car_capacity
		 FROM config WHERE id = ?`, model.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("GetConfig: %w", translate(err))
	}
	return c, nil
}

func (s *Store) UpdateConfig(ctx context.Context, c *model.Config) (*model.Config, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE config
		 SET price_with_pass_cents = ?, price_without_pass_cents = ?, max_car_capacity = ?
		 WHERE id = ?`,
		c.PriceWithPassCents, c.PriceWithoutPassCents, c.MaxCarCapacity, model.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("UpdateConfig: %w", translate(err))
	}
	return s.GetConfig(ctx)
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, has_pass, is_driver) VALUES (?, ?, ?)`,
		u.Name, u.HasPass, u.IsDriver)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return s.GetUser(ctx, int(id))
}

func (s *Store) GetUser(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	if err := s.db.GetContext(ctx, u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("GetUser: %w", translate(err))
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", translate(err))
	}
	return users, nil
}

func (s *Store) ListUnassignedRiders(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.SelectContext(ctx, &users,
		`SELECT u.id, u.name, u.has_pass, u.is_driver, u.created_at
		 FROM users u`+unassignedRidersWhere+`
		 ORDER BY u.name, u.id`); err != nil {
		return nil, fmt.Errorf("ListUnassignedRiders: %w", translate(err))
	}
	return users, nil
}

func (s *Store) ListUnassignedRiderIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := s.db.SelectContext(ctx, &ids,
		`SELECT u.id FROM users u`+unassignedRidersWhere+` ORDER BY u.id`); err != nil {
		return nil, fmt.Errorf("ListUnassignedRiderIDs: %w", translate(err))
	}
	return ids, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("DeleteUser: %w", translate(err))
	}
	return nil
}

func (s *Store) CreateCar(ctx context.Context, c *model.Car) (*model.Car, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cars (driver_id, capacity) VALUES (?, ?)`, c.DriverID, c.Capacity)
	if err != nil {
		return nil, fmt.Errorf("CreateCar: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("CreateCar: %w", err)
	}
	return s.GetCar(ctx, int(id))
}

func (s *Store) GetCar(ctx context.Context, id int) (*model.Car, error) {
	c := &model.Car{}
	if err := s.db.GetContext(ctx, c, `SELECT `+carColumns+` FROM cars WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("GetCar: %w", translate(err))
	}
	return c, nil
}

func (s *Store) GetCarByDriver(ctx context.Context, driverID int) (*model.Car, error) {
	c := &model.Car{}
	if err := s.db.GetContext(ctx, c, `SELECT `+carColumns+` FROM cars WHERE driver_id = ?`, driverID); err != nil {
		return nil, fmt.Errorf("GetCarByDriver: %w", translate(err))
	}
	return c, nil
}

func (s *Store) ListCars(ctx context.Context) ([]model.Car, error) {
	cars := []model.Car{}
	if err := s.db.SelectContext(ctx, &cars, `SELECT `+carColumns+` FROM cars ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("ListCars: %w", translate(err))
	}
	return cars, nil
}

func (s *Store) DeleteCar(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id); err != nil {
		return fmt.Errorf("DeleteCar: %w", translate(err))
	}
	return nil
}

func (s *Store) ListPassengers(ctx context.Context, carID int) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.SelectContext(ctx, &users,
		`SELECT u.id, u.name, u.has_pass, u.is_driver, u.created_at
		 FROM car_passengers cp
		 JOIN users u ON u.id = cp.user_id
		 WHERE cp.car_id = ?
		 ORDER BY u.name, u.id`, carID); err != nil {
		return nil, fmt.Errorf("ListPassengers: %w", translate(err))
	}
	return users, nil
}

func (s *Store) CountPassengers(ctx context.Context, carID int) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM car_passengers WHERE car_id = ?`, carID); err != nil {
		return 0, fmt.Errorf("CountPassengers: %w", translate(err))
	}
	return n, nil
}

func (s *Store) IsAssigned(ctx context.Context, userID int) (bool, error) {
	var ok bool
	if err := s.db.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM car_passengers WHERE user_id = ?)`, userID); err != nil {
		return false, fmt.Errorf("IsAssigned: %w", translate(err))
	}
	return ok, nil
}

// AddPassenger inserts the edge only while the car has a free seat. SQLite
// serialises writers, so the count and the insert cannot interleave.
func (s *Store) AddPassenger(ctx context.Context, carID, userID int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO car_passengers (car_id, user_id)
		 SELECT c.id, ? FROM cars c
		 WHERE c.id = ?
		   AND (SELECT COUNT(*) FROM car_passengers cp WHERE cp.car_id = c.id) + 1 < c.capacity`,
		userID, carID)
	if err != nil {
		return false, fmt.Errorf("AddPassenger: %w", translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("AddPassenger: %w", err)
	}
	return n == 1, nil
}

func (s *Store) RemovePassenger(ctx context.Context, carID, userID int) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM car_passengers WHERE car_id = ? AND user_id = ?`, carID, userID); err != nil {
		return fmt.Errorf("RemovePassenger: %w", translate(err))
	}
	return nil
}

// Purge wipes assignments, cars and users in one transaction. Config stays.
func (s *Store) Purge(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Purge: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM car_passengers`,
		`DELETE FROM cars`,
		`DELETE FROM users`,
		`DELETE FROM sqlite_sequence WHERE name IN ('users', 'cars')`,
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("Purge: %w", translate(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Purge: %w", err)
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.ErrNoRows, err)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return apperr.Wrap(apperr.ErrUnique, err)
		// ON DELETE RESTRICT is enforced by SQLite's internal FK trigger
		// and surfaces as a trigger constraint; the schema defines no
		// triggers of its own.
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return apperr.Wrap(apperr.ErrForeignKey, err)
		}
	}
	return err
}

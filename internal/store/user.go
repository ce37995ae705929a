package store

import (
	"context"
	"fmt"

	"carpool/internal/database"
	"carpool/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, has_pass, is_driver, created_at`

// unassignedRidersWhere matches non-drivers that sit in no car and drive none.
const unassignedRidersWhere = `
	WHERE u.is_driver = FALSE
	  AND NOT EXISTS (SELECT 1 FROM car_passengers cp WHERE cp.user_id = u.id)
	  AND NOT EXISTS (SELECT 1 FROM cars c WHERE c.driver_id = u.id)`

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u := &model.User{}
	if err := scanUser(row, u); err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", translate(err))
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, has_pass, is_driver)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Name,
		u.HasPass,
		u.IsDriver,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", translate(err))
	}
	return u, nil
}

// ListUsers returns every user, newest first.
func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", translate(err))
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

// ListUnassignedRiders returns riders without a seat, ordered by name.
func ListUnassignedRiders(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT u.id, u.name, u.has_pass, u.is_driver, u.created_at
		 FROM users u`+unassignedRidersWhere+`
		 ORDER BY u.name, u.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUnassignedRiders: %w", translate(err))
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("ListUnassignedRiders: %w", err)
	}
	return users, nil
}

// ListUnassignedRiderIDs returns the same riders in insertion order.
func ListUnassignedRiderIDs(ctx context.Context, db database.DB) ([]int, error) {
	rows, err := db.Query(ctx,
		`SELECT u.id FROM users u`+unassignedRidersWhere+`
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUnassignedRiderIDs: %w", translate(err))
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ListUnassignedRiderIDs: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUnassignedRiderIDs: %w", translate(err))
	}
	return ids, nil
}

func DeleteUser(ctx context.Context, db database.DB, ID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		ID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", translate(err))
	}
	return nil
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.HasPass,
		&u.IsDriver,
		&u.CreatedAt,
	)
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return users, nil
}

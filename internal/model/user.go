// File: internal/model/user.go
package model

import "time"

// User is a rider or a driver. Drivers may own at most one car.
type User struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	HasPass   bool      `db:"has_pass" json:"has_pass"`
	IsDriver  bool      `db:"is_driver" json:"is_driver"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

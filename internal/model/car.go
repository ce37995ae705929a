// File: internal/model/car.go
package model

import "time"

// Car is owned by exactly one driver. Capacity includes the driver's seat.
type Car struct {
	ID        int       `db:"id" json:"id"`
	DriverID  int       `db:"driver_id" json:"driver_id"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CarPassenger is the assignment edge between a car and a rider.
type CarPassenger struct {
	CarID  int `db:"car_id" json:"car_id"`
	UserID int `db:"user_id" json:"user_id"`
}

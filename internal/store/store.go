package store

import (
	"context"

	"carpool/internal/database"
	"carpool/internal/model"
)

// Store binds the package functions to one Postgres handle.
type Store struct {
	db database.DB
}

func New(db database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) GetConfig(ctx context.Context) (*model.Config, error) {
	return GetConfig(ctx, s.db)
}

func (s *Store) UpdateConfig(ctx context.Context, c *model.Config) (*model.Config, error) {
	return UpdateConfig(ctx, s.db, c)
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	return CreateUser(ctx, s.db, u)
}

func (s *Store) GetUser(ctx context.Context, id int) (*model.User, error) {
	return GetUserByID(ctx, s.db, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	return ListUsers(ctx, s.db)
}

func (s *Store) ListUnassignedRiders(ctx context.Context) ([]model.User, error) {
	return ListUnassignedRiders(ctx, s.db)
}

func (s *Store) ListUnassignedRiderIDs(ctx context.Context) ([]int, error) {
	return ListUnassignedRiderIDs(ctx, s.db)
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	return DeleteUser(ctx, s.db, id)
}

func (s *Store) CreateCar(ctx context.Context, c *model.Car) (*model.Car, error) {
	return CreateCar(ctx, s.db, c)
}

func (s *Store) GetCar(ctx context.Context, id int) (*model.Car, error) {
	return GetCarByID(ctx, s.db, id)
}

func (s *Store) GetCarByDriver(ctx context.Context, driverID int) (*model.Car, error) {
	return GetCarByDriverID(ctx, s.db, driverID)
}

func (s *Store) ListCars(ctx context.Context) ([]model.Car, error) {
	return ListCars(ctx, s.db)
}

func (s *Store) DeleteCar(ctx context.Context, id int) error {
	return DeleteCar(ctx, s.db, id)
}

func (s *Store) ListPassengers(ctx context.Context, carID int) ([]model.User, error) {
	return ListPassengers(ctx, s.db, carID)
}

func (s *Store) CountPassengers(ctx context.Context, carID int) (int, error) {
	return CountPassengers(ctx, s.db, carID)
}

func (s *Store) IsAssigned(ctx context.Context, userID int) (bool, error) {
	return IsAssigned(ctx, s.db, userID)
}

func (s *Store) AddPassenger(ctx context.Context, carID, userID int) (bool, error) {
	return AddPassenger(ctx, s.db, carID, userID)
}

func (s *Store) RemovePassenger(ctx context.Context, carID, userID int) error {
	return RemovePassenger(ctx, s.db, carID, userID)
}

func (s *Store) Purge(ctx context.Context) error {
	return Purge(ctx, s.db)
}

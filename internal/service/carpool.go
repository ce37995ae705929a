// Package service implements carpool operations on top of a Store.
package service

import (
	"context"
	"errors"
	"strings"

	"carpool/internal/apperr"
	"carpool/internal/lock"
	"carpool/internal/model"
	"carpool/internal/worker"
	"carpool/pkg/logger"
)

// Store is the persistence contract shared by the Postgres and SQLite adapters.
type Store interface {
	Ping(ctx context.Context) error

	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, c *model.Config) (*model.Config, error)

	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUnassignedRiders(ctx context.Context) ([]model.User, error)
	ListUnassignedRiderIDs(ctx context.Context) ([]int, error)
	DeleteUser(ctx context.Context, id int) error

	CreateCar(ctx context.Context, c *model.Car) (*model.Car, error)
	GetCar(ctx context.Context, id int) (*model.Car, error)
	GetCarByDriver(ctx context.Context, driverID int) (*model.Car, error)
	ListCars(ctx context.Context) ([]model.Car, error)
	DeleteCar(ctx context.Context, id int) error

	ListPassengers(ctx context.Context, carID int) ([]model.User, error)
	CountPassengers(ctx context.Context, carID int) (int, error)
	IsAssigned(ctx context.Context, userID int) (bool, error)
	AddPassenger(ctx context.Context, carID, userID int) (bool, error)
	RemovePassenger(ctx context.Context, carID, userID int) error

	Purge(ctx context.Context) error
}

// Pinger is an optional dependency checked by Ping, e.g. the Redis client.
type Pinger func(ctx context.Context) error

var (
	errCarNotFound     = apperr.NotFound("car not found")
	errUserNotFound    = apperr.NotFound("user not found")
	errDriverNotFound  = apperr.NotFound("driver not found")
	errDriverJoin      = apperr.Validation("driver cannot join another car")
	errAlreadyAssigned = apperr.Validation("user already assigned to a car")
	errNoSeats         = apperr.Validation("no seats left")
	errNameTaken       = apperr.Conflict("name already exists")
	errDriverHasCar    = apperr.Validation("cannot delete a driver with a car; delete the car first")
	errNotDriver       = apperr.Validation("user is not marked as driver")
	errDriverCarExists = apperr.Conflict("driver already has a car")
)

// Request-shape errors, shared with the HTTP handlers that reject a body
// before it reaches the service.
var (
	ErrNameRequired     = apperr.Validation("name required")
	ErrBadConfig        = apperr.Validation("Bad config values")
	ErrCarFieldsMissing = apperr.Validation("driver_id and capacity required")
	ErrUserIDRequired   = apperr.Validation("user_id required")
)

type Service struct {
	store  Store
	locker lock.Locker
	pool   worker.Pool
	log    logger.ILogger
	checks []Pinger
}

// New wires a Service. A nil locker falls back to an in-process lock and a
// nil pool builds projections inline.
func New(store Store, locker lock.Locker, pool worker.Pool, log logger.ILogger, checks ...Pinger) *Service {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if pool == nil {
		pool = worker.Inline{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{store: store, locker: locker, pool: pool, log: log, checks: checks}
}

// Ping checks the store and every extra dependency.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return err
	}
	for _, check := range s.checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.store.GetConfig(ctx)
}

// UpdateConfig replaces all three values. Nil fields mean the caller sent
// a missing or non-integer value.
func (s *Service) UpdateConfig(ctx context.Context, withPass, withoutPass, maxCapacity *int) (*model.Config, error) {
	if withPass == nil || withoutPass == nil || maxCapacity == nil {
		return nil, ErrBadConfig
	}
	return s.store.UpdateConfig(ctx, &model.Config{
		ID:                    model.ConfigID,
		PriceWithPassCents:    *withPass,
		PriceWithoutPassCents: *withoutPass,
		MaxCarCapacity:        *maxCapacity,
	})
}

func (s *Service) CreateUser(ctx context.Context, name string, hasPass, isDriver bool) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	u, err := s.store.CreateUser(ctx, &model.User{Name: name, HasPass: hasPass, IsDriver: isDriver})
	if errors.Is(err, apperr.ErrUnique) {
		return nil, apperr.Wrap(errNameTaken, err)
	}
	return u, err
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// DeleteUser removes a user and any seat they hold. Drivers must lose their
// car first. Deleting an unknown id is not an error.
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	_, err := s.store.GetCarByDriver(ctx, id)
	switch {
	case err == nil:
		return errDriverHasCar
	case !errors.Is(err, apperr.ErrNoRows):
		return err
	}
	err = s.store.DeleteUser(ctx, id)
	if errors.Is(err, apperr.ErrForeignKey) {
		// a car was created for this driver after the check above
		return apperr.Wrap(errDriverHasCar, err)
	}
	return err
}

// CreateCar registers a car for a driver and returns its state.
func (s *Service) CreateCar(ctx context.Context, driverID, capacity *int) (*CarState, error) {
	if driverID == nil || capacity == nil {
		return nil, ErrCarFieldsMissing
	}
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateCapacity(*capacity, cfg.MaxCarCapacity); err != nil {
		return nil, err
	}
	driver, err := s.store.GetUser(ctx, *driverID)
	if errors.Is(err, apperr.ErrNoRows) {
		return nil, errDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	if !driver.IsDriver {
		return nil, errNotDriver
	}
	car, err := s.store.CreateCar(ctx, &model.Car{DriverID: driver.ID, Capacity: *capacity})
	switch {
	case errors.Is(err, apperr.ErrUnique):
		return nil, apperr.Wrap(errDriverCarExists, err)
	case errors.Is(err, apperr.ErrForeignKey):
		return nil, apperr.Wrap(errDriverNotFound, err)
	case err != nil:
		return nil, err
	}
	s.log.Info("car created", logger.Int("car_id", car.ID), logger.Int("driver_id", car.DriverID), logger.Int("capacity", car.Capacity))
	return s.carState(ctx, cfg, car)
}

func (s *Service) ListCars(ctx context.Context) ([]CarState, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s.carStates(ctx, cfg)
}

// DeleteCar removes a car; its passenger edges go with it.
func (s *Service) DeleteCar(ctx context.Context, id int) error {
	return s.store.DeleteCar(ctx, id)
}

// JoinCar seats userID in carID. Checks run in a fixed order and the first
// failing one is returned.
func (s *Service) JoinCar(ctx context.Context, carID int, userID *int) (*CarState, error) {
	if userID == nil {
		return nil, ErrUserIDRequired
	}
	unlock, err := s.locker.Lock(ctx, lock.SeatsKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, *userID)
	if errors.Is(err, apperr.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsDriver {
		return nil, errDriverJoin
	}
	assigned, err := s.store.IsAssigned(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, errAlreadyAssigned
	}
	n, err := s.store.CountPassengers(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	if !HasFreeSeat(car.Capacity, n) {
		return nil, errNoSeats
	}
	added, err := s.store.AddPassenger(ctx, car.ID, u.ID)
	switch {
	case errors.Is(err, apperr.ErrUnique):
		return nil, apperr.Wrap(errAlreadyAssigned, err)
	case errors.Is(err, apperr.ErrForeignKey):
		return nil, apperr.Wrap(errCarNotFound, err)
	case err != nil:
		return nil, err
	case !added:
		return nil, errNoSeats
	}
	return s.CarState(ctx, car.ID)
}

// LeaveCar removes the edge if present. Leaving a car one is not in is a no-op.
func (s *Service) LeaveCar(ctx context.Context, carID int, userID *int) (*CarState, error) {
	if userID == nil {
		return nil, ErrUserIDRequired
	}
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemovePassenger(ctx, car.ID, *userID); err != nil {
		return nil, err
	}
	return s.CarState(ctx, car.ID)
}

// Purge deletes all users, cars and assignments. Config survives.
func (s *Service) Purge(ctx context.Context) error {
	if err := s.store.Purge(ctx); err != nil {
		return err
	}
	s.log.Info("all users and cars purged")
	return nil
}

func (s *Service) getCar(ctx context.Context, id int) (*model.Car, error) {
	car, err := s.store.GetCar(ctx, id)
	if errors.Is(err, apperr.ErrNoRows) {
		return nil, errCarNotFound
	}
	return car, err
}

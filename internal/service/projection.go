package service

import (
	"context"
	"errors"

	"carpool/internal/apperr"
	"carpool/internal/model"
	"carpool/internal/worker"
)

type Driver struct {
	ID      int    `json:"id" example:"1"`
	Name    string `json:"name" example:"Ann"`
	HasPass bool   `json:"has_pass" example:"true"`
}

// Passenger is a rider as shown inside a car projection.
type Passenger struct {
	ID       int    `json:"id" example:"3"`
	Name     string `json:"name" example:"Bea"`
	HasPass  bool   `json:"has_pass" example:"false"`
	IsDriver bool   `json:"is_driver" example:"false"`
}

// CarState is a car with its occupants and fare, computed on read.
type CarState struct {
	CarID               int         `json:"car_id" example:"1"`
	Capacity            int         `json:"capacity" example:"4"`
	Driver              *Driver     `json:"driver"`
	Passengers          []Passenger `json:"passengers"`
	SeatsLeft           int         `json:"seats_left" example:"2"`
	AnyPassInCar        bool        `json:"any_pass_in_car" example:"false"`
	PassengerPriceCents int         `json:"passenger_price_cents" example:"300"`
	PassengerPrice      string      `json:"passenger_price" example:"$3.00"`
}

type Totals struct {
	PassengerCount int    `json:"passenger_count" example:"2"`
	TotalFeesCents int    `json:"total_fees_cents" example:"600"`
	TotalFees      string `json:"total_fees" example:"$6.00"`
}

// FullState is the whole carpool: config, every car, riders without a
// seat, and fare totals.
type FullState struct {
	Config          *model.Config `json:"config"`
	Cars            []CarState    `json:"cars"`
	UsersUnassigned []model.User  `json:"users_unassigned"`
	Totals          Totals        `json:"totals"`
}

// CarState builds the projection for one car.
func (s *Service) CarState(ctx context.Context, carID int) (*CarState, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	return s.carState(ctx, cfg, car)
}

func (s *Service) carState(ctx context.Context, cfg *model.Config, car *model.Car) (*CarState, error) {
	driver, err := s.store.GetUser(ctx, car.DriverID)
	if err != nil && !errors.Is(err, apperr.ErrNoRows) {
		return nil, err
	}
	passengers, err := s.store.ListPassengers(ctx, car.ID)
	if err != nil {
		return nil, err
	}

	anyPass := AnyPass(driver, passengers)
	price := PassengerPrice(cfg, anyPass)
	st := &CarState{
		CarID:               car.ID,
		Capacity:            car.Capacity,
		Passengers:          make([]Passenger, 0, len(passengers)),
		SeatsLeft:           SeatsLeft(car.Capacity, len(passengers)),
		AnyPassInCar:        anyPass,
		PassengerPriceCents: price,
		PassengerPrice:      FormatCents(price),
	}
	if driver != nil {
		st.Driver = &Driver{ID: driver.ID, Name: driver.Name, HasPass: driver.HasPass}
	}
	for _, p := range passengers {
		st.Passengers = append(st.Passengers, Passenger{ID: p.ID, Name: p.Name, HasPass: p.HasPass, IsDriver: p.IsDriver})
	}
	return st, nil
}

// carStates projects every car in ascending id order. Projections are
// built on the worker pool.
func (s *Service) carStates(ctx context.Context, cfg *model.Config) ([]CarState, error) {
	cars, err := s.store.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CarState, len(cars))
	err = worker.Each(s.pool, len(cars), func(i int) error {
		st, err := s.carState(ctx, cfg, &cars[i])
		if err != nil {
			return err
		}
		out[i] = *st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) FullState(ctx context.Context) (*FullState, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	cars, err := s.carStates(ctx, cfg)
	if err != nil {
		return nil, err
	}
	unassigned, err := s.store.ListUnassignedRiders(ctx)
	if err != nil {
		return nil, err
	}
	if unassigned == nil {
		unassigned = []model.User{}
	}

	fs := &FullState{Config: cfg, Cars: cars, UsersUnassigned: unassigned}
	for _, c := range cars {
		fs.Totals.PassengerCount += len(c.Passengers)
		fs.Totals.TotalFeesCents += len(c.Passengers) * c.PassengerPriceCents
	}
	fs.Totals.TotalFees = FormatCents(fs.Totals.TotalFeesCents)
	return fs, nil
}

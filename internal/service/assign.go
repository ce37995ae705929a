package service

import (
	"context"
	"errors"

	"carpool/internal/apperr"
	"carpool/internal/lock"
	"carpool/internal/model"
	"carpool/pkg/logger"
)

// CarSeats is the occupancy snapshot the planner works from.
type CarSeats struct {
	CarID      int
	Capacity   int
	Passengers int
}

// PlanAssignments places riders first-fit: cars are tried in the given
// order and each rider takes the first car with a free seat, counting the
// seats already handed out by this plan. Riders that fit nowhere are left
// out. The input slice is not modified.
func PlanAssignments(cars []CarSeats, riders []int) []model.CarPassenger {
	occupied := make([]int, len(cars))
	for i, c := range cars {
		occupied[i] = c.Passengers
	}
	var plan []model.CarPassenger
	for _, userID := range riders {
		for i, c := range cars {
			if HasFreeSeat(c.Capacity, occupied[i]) {
				occupied[i]++
				plan = append(plan, model.CarPassenger{CarID: c.CarID, UserID: userID})
				break
			}
		}
	}
	return plan
}

// AutoAssign seats every unassigned rider it can, cars by ascending id and
// riders in id order, then returns the full state. Existing seats are never
// moved, so a second run without changes does nothing.
func (s *Service) AutoAssign(ctx context.Context) (*FullState, error) {
	if err := s.autoAssign(ctx); err != nil {
		return nil, err
	}
	return s.FullState(ctx)
}

func (s *Service) autoAssign(ctx context.Context) error {
	unlock, err := s.locker.Lock(ctx, lock.SeatsKey)
	if err != nil {
		return err
	}
	defer unlock()

	cars, err := s.store.ListCars(ctx)
	if err != nil {
		return err
	}
	seats := make([]CarSeats, 0, len(cars))
	for _, c := range cars {
		n, err := s.store.CountPassengers(ctx, c.ID)
		if err != nil {
			return err
		}
		seats = append(seats, CarSeats{CarID: c.ID, Capacity: c.Capacity, Passengers: n})
	}
	riders, err := s.store.ListUnassignedRiderIDs(ctx)
	if err != nil {
		return err
	}

	placed := 0
	for _, edge := range PlanAssignments(seats, riders) {
		added, err := s.store.AddPassenger(ctx, edge.CarID, edge.UserID)
		switch {
		case errors.Is(err, apperr.ErrUnique), errors.Is(err, apperr.ErrForeignKey):
			s.log.Warning("auto-assign placement skipped",
				logger.Int("car_id", edge.CarID), logger.Int("user_id", edge.UserID), logger.Error(err))
			continue
		case err != nil:
			return err
		case !added:
			s.log.Warning("auto-assign placement skipped: car full",
				logger.Int("car_id", edge.CarID), logger.Int("user_id", edge.UserID))
			continue
		}
		placed++
	}
	s.log.Info("auto-assign finished",
		logger.Int("cars", len(cars)), logger.Int("riders", len(riders)), logger.Int("placed", placed))
	return nil
}

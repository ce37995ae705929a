package service

import "carpool/internal/apperr"

// ValidateCapacity checks a new car's capacity against the configured maximum.
func ValidateCapacity(capacity, max int) error {
	if capacity < 1 || capacity > max {
		return apperr.Validation("capacity must be 1..%d", max)
	}
	return nil
}

// HasFreeSeat applies the join rule: the driver takes one seat, and a rider
// is refused once driver plus passengers reach the capacity.
func HasFreeSeat(capacity, passengers int) bool {
	return 1+passengers < capacity
}

func SeatsLeft(capacity, passengers int) int {
	left := capacity - (1 + passengers)
	if left < 0 {
		return 0
	}
	return left
}

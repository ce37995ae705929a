package api

// Integer fields are pointers so that a missing value can be told apart
// from zero.

// swagger:model api.CreateCarRequest
type CreateCarRequest struct {
	DriverID *int `json:"driver_id" validate:"required" example:"1"`
	Capacity *int `json:"capacity" validate:"required" example:"4"`
}

// swagger:model api.PassengerRequest
type PassengerRequest struct {
	UserID *int `json:"user_id" validate:"required" example:"2"`
}

package api

// swagger:model api.UpdateConfigRequest
type UpdateConfigRequest struct {
	PriceWithPassCents    *int `json:"price_with_pass_cents" validate:"required" example:"500"`
	PriceWithoutPassCents *int `json:"price_without_pass_cents" validate:"required" example:"300"`
	MaxCarCapacity        *int `json:"max_car_capacity" validate:"required" example:"4"`
}

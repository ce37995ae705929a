package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required" example:"Alice"`
	HasPass  bool   `json:"has_pass" example:"false"`
	IsDriver bool   `json:"is_driver" example:"false"`
}

package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"car not found"`
}

// swagger:model api.OKResponse
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// swagger:model api.PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}

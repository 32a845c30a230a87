package dto

// HealthResponse is the body for GET /health
type HealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

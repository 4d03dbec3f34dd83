package models

// HealthCheckResponse is returned by the health check route
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// ListResponse wraps list endpoints so an empty list is still an object
type ListResponse[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

// TimeResponse carries the console clock
type TimeResponse struct {
	Time string `json:"time"`
}

// BannerResponse carries the broadcast and update banners
type BannerResponse struct {
	Message     string `json:"message,omitempty"`
	Maintenance string `json:"maintenance,omitempty"`
}

// TokenResponse is returned when an admin session is opened
type TokenResponse struct {
	Token string `json:"token"`
}

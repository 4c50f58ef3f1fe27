package update_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// InvalidTransitionResponse ответ при недопустимом переходе статуса
type InvalidTransitionResponse struct {
	Error           string   `json:"error"`
	CurrentStatus   string   `json:"currentStatus"`
	RequestedStatus string   `json:"requestedStatus"`
	AllowedStatuses []string `json:"allowedStatuses"`
}

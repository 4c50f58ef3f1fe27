package smsgateway

// sendRequest тело запроса на отправку SMS
type sendRequest struct {
	To     string `json:"to"`
	From   string `json:"from"`
	Body   string `json:"body"`
	APIKey string `json:"apiKey"`
}

// sendResponse ответ шлюза
type sendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

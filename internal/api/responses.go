package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type CheckoutResponse struct {
	Message     string `json:"message" example:"Payment started"`
	CheckoutURL string `json:"checkout_url" example:"https://checkout.chapa.co/checkout/payment/abc123"`
}

type CallbackResponse struct {
	Message string      `json:"message" example:"Payment successful"`
	Status  string      `json:"status" example:"success"`
	Details interface{} `json:"details,omitempty"`
}

package model

// PurchaseNotes is the merchant-defined metadata attached to a Razorpay
// payment at checkout time. Numeric fields arrive as free-text strings.
type PurchaseNotes struct {
	UserID   string `json:"userId"`
	PackName string `json:"packName"`
	Credits  string `json:"credits"`
	Price    string `json:"price"`
	Type     string `json:"type"` // "plan" or "credits"
}

type PaymentEntity struct {
	ID       string        `json:"id"`
	Amount   int64         `json:"amount"`
	Currency string        `json:"currency"`
	Status   string        `json:"status"`
	OrderID  string        `json:"order_id"`
	Email    string        `json:"email"`
	Notes    PurchaseNotes `json:"notes"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type OrderEntity struct {
	ID     string        `json:"id"`
	Amount int64         `json:"amount"`
	Status string        `json:"status"`
	Notes  PurchaseNotes `json:"notes"`
}

type OrderWrapper struct {
	Entity OrderEntity `json:"entity"`
}

type WebhookPayload struct {
	Payment PaymentWrapper `json:"payment"`
	Order   OrderWrapper   `json:"order"`
}

type RazorpayWebhookEvent struct {
	Event     string         `json:"event"`
	AccountID string         `json:"account_id"`
	Payload   WebhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}

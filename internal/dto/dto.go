package dto

type DebitRequest struct {
	Cost    int    `json:"cost"`
	Feature string `json:"feature"`
}

type LedgerSnapshot struct {
	Credits              int    `json:"credits"`
	TotalCreditsAcquired int    `json:"total_credits_acquired"`
	TotalSpent           int    `json:"total_spent"`
	Plan                 string `json:"plan"`
	StorageTier          string `json:"storage_tier,omitempty"`
	LifetimeGenerations  int    `json:"lifetime_generations"`
}

type RefundRequest struct {
	UserEmail        string `json:"user_email"`
	Cost             int    `json:"cost"`
	Reason           string `json:"reason"`
	Feature          string `json:"feature"`
	CreationID       string `json:"creation_id,omitempty"`
	GenerationConfig string `json:"generation_config,omitempty"`
}

type RefundResult struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // refund | ticket
	Message string `json:"message"`
}

type GenerateRequest struct {
	Feature   string `json:"feature"`
	Prompt    string `json:"prompt"`
	ImageData string `json:"image_data,omitempty"` // base64 source image for edit features
	MimeType  string `json:"mime_type,omitempty"`
}

type GenerateResponse struct {
	CreationID string         `json:"creation_id"`
	ImageData  string         `json:"image_data"`
	MimeType   string         `json:"mime_type"`
	Ledger     LedgerSnapshot `json:"ledger"`
}

type TransactionEntry struct {
	Feature      string `json:"feature"`
	CreditChange string `json:"credit_change"`
	Cost         int    `json:"cost"`
	PaymentID    string `json:"payment_id,omitempty"`
	Date         string `json:"date"`
	Method       string `json:"method"`
}

type CreationEntry struct {
	ID        string `json:"id"`
	Feature   string `json:"feature"`
	ImageURL  string `json:"image_url"`
	Refunded  bool   `json:"refunded"`
	CreatedAt string `json:"created_at"`
}

package model

import "time"

type UserLedger struct {
	UserID               string `gorm:"primaryKey;size:64;not null"`
	Credits              int    `gorm:"not null;default:0"`
	TotalCreditsAcquired int    `gorm:"not null;default:0"`
	TotalSpent           int    `gorm:"not null;default:0"`
	Plan                 string `gorm:"size:64"`
	BasePlan             string `gorm:"size:64"`
	StorageTier          string `gorm:"size:32"`
	LastTierPurchaseDate *time.Time
	LastAutomatedRefund  *time.Time
	LifetimeGenerations  int `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreditTransaction is the append-only audit log under a user ledger.
// Rows are never edited or deleted once written.
type CreditTransaction struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"size:64;index;not null"`
	Feature      string `gorm:"size:128;not null"` // e.g. "Purchase: Studio Plan", "Credit Refill"
	CreditChange string `gorm:"size:16;not null"`  // signed display string, e.g. "+25"
	Cost         int    `gorm:"not null"`          // price paid, 0 for non-purchase events
	PaymentID    string `gorm:"size:128;index"`
	Date         time.Time
	Method       string `gorm:"size:32;index;not null"` // webhook, app, auto_refund, signup, milestone
}

// Purchase is the idempotency fence: one row per provider payment id.
// Its existence means the corresponding credit has already been applied.
type Purchase struct {
	PaymentID    string `gorm:"primaryKey;size:128;not null"`
	UserID       string `gorm:"size:64;index;not null"`
	PackName     string `gorm:"size:128"`
	CreditsAdded int    `gorm:"not null"`
	AmountPaid   int    `gorm:"not null"`
	Status       string `gorm:"size:32;not null"` // success
	PurchaseDate time.Time
	Method       string `gorm:"size:32"`
}

type SupportTicket struct {
	ID               string `gorm:"primaryKey;size:64;not null"`
	UserID           string `gorm:"size:64;index;not null"`
	UserEmail        string `gorm:"size:255"`
	Subject          string `gorm:"size:255"`
	Reason           string `gorm:"type:text"`
	RequestedCredits int    `gorm:"not null"`
	Feature          string `gorm:"size:128"`
	CreationID       string `gorm:"size:64"`
	GenerationConfig string `gorm:"type:text"`              // JSON diagnostics from the client
	Status           string `gorm:"size:32;index;not null"` // open, resolved
	CreatedAt        time.Time
}

type Creation struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	UserID    string `gorm:"size:64;index;not null"`
	Feature   string `gorm:"size:128;not null"`
	ImageURL  string `gorm:"type:text"`
	Prompt    string `gorm:"type:text"`
	Refunded  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

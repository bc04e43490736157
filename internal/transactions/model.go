package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type classifies a transaction from the owning user's point of view.
type Type string

const (
	TypeSend     Type = "send"
	TypeReceive  Type = "receive"
	TypeTopUp    Type = "topup"
	TypeWithdraw Type = "withdraw"
)

// RecordStatus is the server-side settlement state of a transaction.
type RecordStatus string

const (
	StatusCompleted RecordStatus = "completed"
	StatusPending   RecordStatus = "pending"
	StatusFailed    RecordStatus = "failed"
)

// Record is one transaction as reported by the API. Immutable once built
// from a response; local optimistic entries use StatusPending until the
// next authoritative refresh replaces them.
type Record struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	Status      RecordStatus    `json:"status"`
}

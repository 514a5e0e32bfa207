package invoice

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// UnlockToken grants temporary read access to one locked invoice.
// Tokens are single-invoice and expire on their own; they are never
// refreshed, the holder re-enters the password instead.
type UnlockToken struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewUnlockToken issues a token for an invoice after a successful
// password exchange
func NewUnlockToken(tenantID, invoiceID, userID uuid.UUID, ttl time.Duration) (*UnlockToken, error) {
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Token lifetime must be positive")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
	}

	now := time.Now()
	return &UnlockToken{
		ID:        uuid.New(),
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		UserID:    userID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// IsValidFor reports whether the token still grants access to the invoice
func (t *UnlockToken) IsValidFor(invoiceID uuid.UUID, now time.Time) bool {
	return t.InvoiceID == invoiceID && now.Before(t.ExpiresAt)
}

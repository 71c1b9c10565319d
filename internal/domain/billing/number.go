package billing

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
)

const (
	invoiceNumberPrefix = "INV"
	suffixLength        = 6
	// maxNumberAttempts bounds both candidate generation and commit retries.
	// Exhausting it means the random source is broken or the day's identifier
	// space is nearly full, and processing must stop rather than proceed with
	// an ambiguous number.
	maxNumberAttempts = 10
)

// ErrNumberExhausted is returned when every generation attempt collided with
// an existing invoice number. It is an internal failure, not a user error.
var ErrNumberExhausted = shared.NewDomainError(shared.CodeInternal, "Failed to generate unique invoice number")

// Clock supplies the current time for the number's date prefix. Injected so
// tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation used in production
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// SuffixSource produces the random alphanumeric suffix of an invoice number.
// Injected so tests can supply deterministic or forced-collision sequences.
type SuffixSource interface {
	Suffix(n int) string
}

const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CryptoSuffixSource draws suffix characters from crypto/rand
type CryptoSuffixSource struct{}

// Suffix returns n uppercase alphanumeric characters
func (CryptoSuffixSource) Suffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the OS entropy source is gone; there is
		// no safe fallback for a uniqueness-critical identifier.
		panic("billing: reading random suffix: " + err.Error())
	}
	for i := range buf {
		buf[i] = suffixAlphabet[int(buf[i])%len(suffixAlphabet)]
	}
	return string(buf)
}

// NumberChecker answers whether an invoice number is already persisted.
// The invoice repository satisfies it.
type NumberChecker interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// NumberGenerator produces unique invoice numbers of the form
// INV-YYYYMMDD-XXXXXX, where the date comes from the injected clock (the
// current date, not the invoice date) and the six-character suffix from the
// injected source. The pre-insert existence check is advisory; the storage
// unique constraint is the final arbiter against concurrent creations.
type NumberGenerator struct {
	clock    Clock
	suffixes SuffixSource
	invoices NumberChecker
}

// NewNumberGenerator creates a generator with the given capabilities
func NewNumberGenerator(clock Clock, suffixes SuffixSource, invoices NumberChecker) *NumberGenerator {
	return &NumberGenerator{
		clock:    clock,
		suffixes: suffixes,
		invoices: invoices,
	}
}

// Assign fills the invoice's number if it is unset. An invoice that already
// carries a number passes through untouched, which lets callers and tests
// supply deterministic numbers. Candidates colliding with a persisted number
// are discarded and regenerated up to maxNumberAttempts times; exhaustion
// returns ErrNumberExhausted.
func (g *NumberGenerator) Assign(ctx context.Context, invoice *Invoice) error {
	if invoice.InvoiceNumber != "" {
		return nil
	}

	prefix := fmt.Sprintf("%s-%s-", invoiceNumberPrefix, g.clock.Now().Format("20060102"))
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := prefix + g.suffixes.Suffix(suffixLength)
		exists, err := g.invoices.ExistsByNumber(ctx, candidate)
		if err != nil {
			return err
		}
		if !exists {
			invoice.InvoiceNumber = candidate
			return nil
		}
	}
	return ErrNumberExhausted
}

// Reassign discards the current number and generates a fresh one. Used when
// the storage unique constraint rejects a generated number at commit time.
func (g *NumberGenerator) Reassign(ctx context.Context, invoice *Invoice) error {
	invoice.InvoiceNumber = ""
	return g.Assign(ctx, invoice)
}

// MaxAttempts exposes the retry budget shared by generation and commit
// retries.
func (g *NumberGenerator) MaxAttempts() int {
	return maxNumberAttempts
}

package billing

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins Now to a known instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// sequenceSuffixSource returns scripted suffixes, repeating the last one
// once the script is exhausted
type sequenceSuffixSource struct {
	suffixes []string
	calls    int
}

func (s *sequenceSuffixSource) Suffix(int) string {
	i := s.calls
	if i >= len(s.suffixes) {
		i = len(s.suffixes) - 1
	}
	s.calls++
	return s.suffixes[i]
}

// memoryNumberChecker reports existence from an in-memory set
type memoryNumberChecker struct {
	existing map[string]bool
	err      error
}

func (m *memoryNumberChecker) ExistsByNumber(_ context.Context, number string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[number], nil
}

var numberPattern = regexp.MustCompile(`^INV-\d{8}-[A-Z0-9]{6}$`)

func TestCryptoSuffixSource(t *testing.T) {
	source := CryptoSuffixSource{}

	suffix := source.Suffix(6)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, suffix)
	assert.Len(t, source.Suffix(6), 6)
}

func TestNumberGenerator_Assign(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	t.Run("generates date-prefixed number", func(t *testing.T) {
		gen := NewNumberGenerator(clock, &sequenceSuffixSource{suffixes: []string{"AB12CD"}}, &memoryNumberChecker{existing: map[string]bool{}})
		inv := NewInvoice(uuid.New())

		err := gen.Assign(context.Background(), inv)

		require.NoError(t, err)
		assert.Equal(t, "INV-20250615-AB12CD", inv.InvoiceNumber)
		assert.Regexp(t, numberPattern, inv.InvoiceNumber)
	})

	t.Run("keeps an explicit number untouched", func(t *testing.T) {
		source := &sequenceSuffixSource{suffixes: []string{"AB12CD"}}
		gen := NewNumberGenerator(clock, source, &memoryNumberChecker{existing: map[string]bool{}})
		inv := NewInvoice(uuid.New())
		inv.InvoiceNumber = "CUSTOM-1"

		err := gen.Assign(context.Background(), inv)

		require.NoError(t, err)
		assert.Equal(t, "CUSTOM-1", inv.InvoiceNumber)
		assert.Zero(t, source.calls)
	})

	t.Run("retries past collisions", func(t *testing.T) {
		checker := &memoryNumberChecker{existing: map[string]bool{
			"INV-20250615-TAKEN1": true,
			"INV-20250615-TAKEN2": true,
		}}
		gen := NewNumberGenerator(clock, &sequenceSuffixSource{suffixes: []string{"TAKEN1", "TAKEN2", "FREE33"}}, checker)
		inv := NewInvoice(uuid.New())

		err := gen.Assign(context.Background(), inv)

		require.NoError(t, err)
		assert.Equal(t, "INV-20250615-FREE33", inv.InvoiceNumber)
	})

	t.Run("fails fatally after ten collisions", func(t *testing.T) {
		checker := &memoryNumberChecker{existing: map[string]bool{"INV-20250615-TAKEN1": true}}
		source := &sequenceSuffixSource{suffixes: []string{"TAKEN1"}}
		gen := NewNumberGenerator(clock, source, checker)
		inv := NewInvoice(uuid.New())

		err := gen.Assign(context.Background(), inv)

		require.Error(t, err)
		assert.Equal(t, ErrNumberExhausted, err)
		assert.Equal(t, 10, source.calls)
		assert.Empty(t, inv.InvoiceNumber)
	})

	t.Run("propagates checker errors", func(t *testing.T) {
		checker := &memoryNumberChecker{err: assert.AnError}
		gen := NewNumberGenerator(clock, &sequenceSuffixSource{suffixes: []string{"AB12CD"}}, checker)
		inv := NewInvoice(uuid.New())

		err := gen.Assign(context.Background(), inv)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestNumberGenerator_Reassign(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

	t.Run("replaces the current number", func(t *testing.T) {
		gen := NewNumberGenerator(clock, &sequenceSuffixSource{suffixes: []string{"NEW456"}}, &memoryNumberChecker{existing: map[string]bool{}})
		inv := NewInvoice(uuid.New())
		inv.InvoiceNumber = "INV-20250615-OLD123"

		err := gen.Reassign(context.Background(), inv)

		require.NoError(t, err)
		assert.Equal(t, "INV-20250615-NEW456", inv.InvoiceNumber)
	})
}

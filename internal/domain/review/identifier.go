package review

import (
	"crypto/rand"
	"fmt"
	"time"
)

// idAlphabet is the 32-symbol alphabet used for identifier tokens. It omits
// 0/O and 1/I so identifiers survive being read aloud or retyped.
const idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// invoiceTokenLength is the random token length in invoice identifiers.
const invoiceTokenLength = 8

// IDGenerator produces collision-resistant, human-readable identifiers for
// invoices and anomalies. The zero value is ready to use.
type IDGenerator struct {
	now func() time.Time
}

// NewIDGenerator creates an IDGenerator using the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock creates an IDGenerator with a custom clock.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// NewInvoiceID returns an identifier of the form INV-<year>-<token>.
// The 32^8 token space makes collisions vanishingly rare for normal batch
// sizes; the store still enforces uniqueness and callers retry on conflict.
func (g *IDGenerator) NewInvoiceID() string {
	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}
	return fmt.Sprintf("INV-%d-%s", now().Year(), RandomToken(invoiceTokenLength))
}

// RandomToken returns n characters drawn from the unambiguous alphabet
// using crypto/rand.
func RandomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// there is no sensible recovery for identifier generation.
		panic(fmt.Sprintf("review: reading random bytes: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(out)
}

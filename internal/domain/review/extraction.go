package review

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

const (
	// maxVendorLength bounds the vendor name derived from a filename.
	maxVendorLength = 24
	// unknownVendor is used when the filename yields no vendor text.
	unknownVendor = "Unknown Vendor"
	// minAmount floors any amount parsed out of a filename.
	minAmount = 100
)

var (
	// vendorTailPattern strips an optional separator, the first digit run,
	// and everything after it from the base name.
	vendorTailPattern = regexp.MustCompile(`[_-]?\d+.*`)
	// amountPattern captures the first digit run in the base name.
	amountPattern = regexp.MustCompile(`\d+`)
	// amountTriggers and dateTriggers are matched case-insensitively
	// against the full filename.
	amountTriggers = []string{"mismatch", "error", "diff"}
	dateTriggers   = []string{"late", "overdue"}
)

// Extraction is the result of running the heuristic over one filename.
type Extraction struct {
	Vendor    string
	Amount    int64
	Anomalies []Anomaly
}

// Extractor derives vendor, amount, and anomaly data from document
// filenames. It never inspects document content. Anomaly identifiers
// combine a monotonic per-extractor counter with a random token, so they
// stay unique even when many documents are processed in the same instant.
//
// An Extractor is safe for concurrent use.
type Extractor struct {
	mu   sync.Mutex
	seq  uint64
	rand *rand.Rand
}

// NewExtractor creates an Extractor with the given seed for the fallback
// amount. Output is deterministic given the same seed and call sequence.
func NewExtractor(seed int64) *Extractor {
	return &Extractor{rand: rand.New(rand.NewSource(seed))}
}

// Extract runs the heuristic over one filename. It never fails: missing
// data falls back to "Unknown Vendor" and a pseudo-random plausible amount.
func (e *Extractor) Extract(fileName string) Extraction {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	vendor := strings.TrimSpace(vendorTailPattern.ReplaceAllString(base, ""))
	if runes := []rune(vendor); len(runes) > maxVendorLength {
		vendor = string(runes[:maxVendorLength])
	}
	if vendor == "" {
		vendor = unknownVendor
	}

	ext := Extraction{
		Vendor: vendor,
		Amount: e.amountFrom(base),
	}

	lower := strings.ToLower(fileName)
	if containsAny(lower, amountTriggers) {
		ext.Anomalies = append(ext.Anomalies, Anomaly{
			ID:          e.nextAnomalyID(),
			Type:        AnomalyAmountMismatch,
			Priority:    PriorityHigh,
			Description: "Amount Mismatch",
			Details:     "Invoice total doesn't match purchase order amount",
		})
	}
	if containsAny(lower, dateTriggers) {
		ext.Anomalies = append(ext.Anomalies, Anomaly{
			ID:          e.nextAnomalyID(),
			Type:        AnomalyDateValidation,
			Priority:    PriorityMedium,
			Description: "Date Validation",
			Details:     "Invoice date seems older than expected",
		})
	}
	return ext
}

// amountFrom parses the first digit run as the amount, floored at
// minAmount. Without digits it synthesizes a value in [1000, 9999].
func (e *Extractor) amountFrom(base string) int64 {
	if m := amountPattern.FindString(base); m != "" {
		n, err := strconv.ParseInt(m, 10, 64)
		if err == nil {
			if n < minAmount {
				return minAmount
			}
			return n
		}
		// Digit run too long for int64; treat as missing.
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return int64(e.rand.Intn(9000)) + 1000
}

// nextAnomalyID returns "anom-<seq>-<token>". The counter guarantees
// uniqueness within the extractor; the token keeps ids unique across
// extractor instances.
func (e *Extractor) nextAnomalyID() string {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.mu.Unlock()
	return fmt.Sprintf("anom-%d-%s", seq, RandomToken(6))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

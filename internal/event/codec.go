// Package event defines the wire format for transaction events: five
// comma-delimited fields, in order transaction id, account id, kind,
// amount as decimal text, timestamp as RFC 3339. Fields containing a
// comma are unsupported; no escaping is defined.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contabook/ledger-service/internal/domain"
)

const fieldCount = 5

// Encode serializes a transaction for publication.
func Encode(t *domain.Transaction) string {
	return strings.Join([]string{
		t.ID,
		t.AccountID,
		string(t.Kind),
		t.Amount.String(),
		t.Timestamp.UTC().Format(time.RFC3339Nano),
	}, ",")
}

// Decode parses a wire payload back into a transaction. A field-count
// mismatch, an unparseable amount or timestamp, or entity-level invariant
// violations (non-positive amount, unknown kind) fail the decode; the
// caller discards such messages.
func Decode(payload string) (*domain.Transaction, error) {
	fields := strings.Split(payload, ",")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("event.Decode: %d fields: %w", len(fields), domain.ErrMalformedEvent)
	}

	amount, err := decimal.NewFromString(fields[3])
	if err != nil {
		return nil, fmt.Errorf("event.Decode: amount %q: %w", fields[3], domain.ErrMalformedEvent)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, fields[4])
	if err != nil {
		return nil, fmt.Errorf("event.Decode: timestamp %q: %w", fields[4], domain.ErrMalformedEvent)
	}

	t, err := domain.NewTransaction(fields[0], fields[1], domain.TransactionKind(fields[2]), amount, timestamp)
	if err != nil {
		return nil, fmt.Errorf("event.Decode: %w", err)
	}
	return t, nil
}

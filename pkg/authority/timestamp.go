package authority

import (
	"fmt"
	"time"

	"github.com/agentstation/wdtaxa/pkg/constants"
)

// Timestamp is a retrieval date at day precision.
type Timestamp struct {
	time.Time
}

// Today truncates t to its UTC calendar day.
func Today(t time.Time) Timestamp {
	y, m, d := t.UTC().Date()
	return Timestamp{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String renders the QuickStatements time value, e.g.
// "+2024-03-01T00:00:00Z/11".
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("+%s/%d", t.UTC().Format("2006-01-02T00:00:00Z"), constants.DayPrecision)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

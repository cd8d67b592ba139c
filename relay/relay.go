package relay

import (
	"encoding/json"
	"fmt"
)

/* Outcome classifies a single downstream delivery attempt.
 * Uses value semantics as it represents data, not behavior.
 * Error is a pointer so the JSON field is null on success rather
 * than an empty string.
 */
type Outcome struct {
	Success   bool    `json:"success"`
	Error     *string `json:"error"`
	TargetURL string  `json:"target_url"`
}

/* TestSignal is the fixed synthetic payload used to exercise the
 * delivery path end to end without a real signal provider.
 */
type TestSignal struct {
	Symbol    string  `json:"symbol"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Strategy  string  `json:"strategy"`
	Timestamp int64   `json:"timestamp"`
	Test      bool    `json:"test"`
	Source    string  `json:"source"`
}

func (t TestSignal) encode() ([]byte, error) {
	encoded, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling test signal: %w", err)
	}
	return encoded, nil
}

// TestReport describes the result of a synthetic delivery. Success
// means the request completed; the remote status is echoed as-is.
type TestReport struct {
	Success bool
	Status  int
	Err     string
	Data    TestSignal
}

package payload

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// EmptyMessage replaces bodies that arrive with no usable content.
const EmptyMessage = "Empty webhook received"

// RelayTag identifies this relay in every payload it forwards.
const RelayTag = "heroku-webhook-relay"

/* Payload is the inbound webhook body: an open JSON object of
 * unconstrained shape. Unknown fields pass through untouched.
 */
type Payload map[string]any

// Receipt captures where and when a webhook arrived.
type Receipt struct {
	ClientIP  string
	UserAgent string
	At        time.Time
}

/* Parse turns an inbound request body into a Payload.
 *
 * JSON content types must carry valid JSON; a parse failure there is a
 * processing error surfaced to the caller. Form-encoded bodies are
 * decoded field by field. Anything else is tried as JSON and finally
 * wrapped as a plain message. Signal providers are not consistent
 * about content types.
 */
func Parse(contentType string, body []byte) (Payload, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return Payload{}, nil
	}

	if strings.Contains(contentType, "application/json") {
		var p Payload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("parsing JSON body: %w", err)
		}
		return p, nil
	}

	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			p := Payload{}
			for key := range values {
				if key == "" {
					continue
				}
				p[key] = values.Get(key)
			}
			if len(p) > 0 {
				return p, nil
			}
		}
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err == nil {
		return p, nil
	}
	return Payload{"message": string(body)}, nil
}

/* Enrich returns a fresh copy of the payload with exactly four receipt
 * metadata fields merged in. The original map is never mutated. An
 * empty payload is first replaced by the placeholder message so the
 * downstream side always sees at least one field.
 */
func Enrich(p Payload, rcpt Receipt) Payload {
	enriched := make(Payload, len(p)+4)
	if len(p) == 0 {
		enriched["message"] = EmptyMessage
	}
	for key, value := range p {
		enriched[key] = value
	}
	enriched["heroku_received_at"] = rcpt.At.UnixMilli()
	enriched["heroku_timestamp"] = rcpt.At.UTC().Format(time.RFC3339)
	enriched["client_ip"] = rcpt.ClientIP
	enriched["relayed_by"] = RelayTag
	return enriched
}

/* Signal is the wire envelope delivered to the internal endpoint.
 * The type and source values are fixed; downstream consumers dispatch
 * on them.
 */
type Signal struct {
	Type       string  `json:"type"`
	Data       Payload `json:"data"`
	Source     string  `json:"source"`
	ReceivedAt int64   `json:"received_at"`
}

// NewSignal wraps an enriched payload for downstream delivery.
func NewSignal(data Payload, receivedAt time.Time) Signal {
	return Signal{
		Type:       "webhook_signal",
		Data:       data,
		Source:     "heroku",
		ReceivedAt: receivedAt.UnixMilli(),
	}
}

// Bytes returns the JSON-encoded signal envelope.
func (s Signal) Bytes() ([]byte, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling signal: %w", err)
	}
	return encoded, nil
}

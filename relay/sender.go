package relay

import (
	"context"
	"time"
)

/* Small, focused interfaces written for users of the API, not just
 * for testing. The service depends on behavior (posting bytes,
 * recording observations), not on concrete clients.
 */

// Sender delivers a JSON body to a downstream URL.
type Sender interface {
	/* Post performs a single HTTP POST and returns the response
	 * status code. A non-nil error means no response was received
	 * (transport failure or timeout); a non-2xx status is not an
	 * error at this layer.
	 */
	Post(ctx context.Context, url string, body []byte) (int, error)
}

// Recorder receives delivery observations for the metrics surface.
type Recorder interface {
	SignalReceived(ctx context.Context)
	DeliveryCompleted(ctx context.Context, success bool, elapsed time.Duration)
}

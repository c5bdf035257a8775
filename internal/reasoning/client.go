package reasoning

import (
	"context"
	"encoding/json"
)

// Client is the stateless adapter to the external reasoning service.
//
// Complete sends a single request carrying the system instructions and
// the JSON-serialized payload, requesting a strictly-JSON completion,
// and returns the raw JSON document the model produced. Implementations
// enforce a bounded timeout, abandon the call at that boundary, and
// return typed errors from this package instead of raising. They do not
// retry; a single failure is the caller's signal to fall back to local
// heuristics.
type Client interface {
	Complete(ctx context.Context, systemInstructions string, payload any) (json.RawMessage, error)
}

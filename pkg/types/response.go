package types

// SuccessEnvelope wraps every successful API payload so the storefront can
// unwrap cart views, summaries, and order confirmations uniformly.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a failed request. Code is a stable
// machine-readable identifier (VALIDATION_ERROR, IDEMPOTENCY_KEY_REUSED,
// ...); Details carries per-field messages when validation fails.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope mirrors SuccessEnvelope for failures.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

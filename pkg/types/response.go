package types

// SuccessEnvelope wraps non-calculation payloads (admin CRUD, health).
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// CalculationEnvelope is the wire shape of a successful pricing call.
type CalculationEnvelope struct {
	Success     bool `json:"success"`
	Calculation any  `json:"calculation"`
}

// ErrorEnvelope carries the generic user-facing failure string. Internal
// detail never leaves the server logs.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

package port

// Alerter raises an operator-facing incident. Implementations must never
// return an error to the pipeline; a lost alert is logged, not fatal.
type Alerter interface {
	Alert(msg string)
}

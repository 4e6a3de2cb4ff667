// README: Common money value object used across modules.
package types

// Money holds an amount in minor units (ngwee for ZMW).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

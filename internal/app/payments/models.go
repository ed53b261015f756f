package payments

// PaymentRequest is the purchase submission. Expiry and CVV are required
// for intake but discarded after validation. They are never persisted,
// logged, or forwarded.
type PaymentRequest struct {
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	CardNumber string  `json:"card_number"`
	Expiry     string  `json:"expiry"`
	CVV        string  `json:"cvv"`
	CoinSymbol string  `json:"coin_symbol"`
	Amount     float64 `json:"amount"`
}

// PaymentResult is returned on successful intake.
type PaymentResult struct {
	PaymentID    string
	CryptoAmount float64
}

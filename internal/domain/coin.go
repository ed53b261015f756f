package domain

import "errors"

var ErrUnknownCoin = errors.New("unknown coin symbol")
var ErrPriceUnavailable = errors.New("coin price unavailable")

// Coin is one entry of the fixed catalog. Identity fields (Symbol, Name,
// ProviderID, presentation metadata) are static for the process lifetime;
// Price and Change24h are overwritten by the price refresher.
type Coin struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	ProviderID string  `yaml:"provider_id"`
	Icon       string  `yaml:"icon"`
	Color      string  `yaml:"color"`
	Price      float64 `yaml:"fallback_price"`
	Change24h  float64 `yaml:"-"`
}

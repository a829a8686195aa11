package model

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Default form values for a new token.
const (
	DefaultDecimals = 9
	DefaultSupply   = 1_000_000

	// RecommendedSymbolLength is shown as a hint only.
	RecommendedSymbolLength = 8
)

// Image is the binary icon uploaded alongside a token.
type Image struct {
	Filename    string
	ContentType string // detected from Data when empty
	Data        []byte
}

// Empty reports whether no image bytes were provided.
func (i Image) Empty() bool {
	return len(i.Data) == 0
}

// TokenCreationRequest captures the user's intent for one token.
// It is passed by value and never modified once submitted.
type TokenCreationRequest struct {
	Name        string
	Symbol      string
	Decimals    uint8
	Supply      decimal.Decimal
	Image       Image
	Description string

	// Optional social links.
	Website  string
	Twitter  string
	Telegram string
	Discord  string

	RevokeFreeze bool
	RevokeMint   bool
}

// NewTokenCreationRequest returns a request with the form defaults applied.
func NewTokenCreationRequest() TokenCreationRequest {
	return TokenCreationRequest{
		Decimals:     DefaultDecimals,
		Supply:       decimal.NewFromInt(DefaultSupply),
		RevokeFreeze: true,
		RevokeMint:   false,
	}
}

// ValidationError lists the required fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validate checks the minimal required inputs.
// Supply ceilings are intentionally not enforced here; see MaxSupply.
func (r TokenCreationRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Symbol) == "" {
		missing = append(missing, "symbol")
	}
	if r.Image.Empty() {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if !r.Supply.IsPositive() {
		missing = append(missing, "supply")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

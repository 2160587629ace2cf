package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBaseUnits_ExactForAllDecimals(t *testing.T) {
	supplies := []string{"1", "1000000", "18446744073", "123456789", "10000000000000"}

	for d := uint8(0); d <= MaxDecimals; d++ {
		for _, s := range supplies {
			supply := decimal.RequireFromString(s)
			if supply.GreaterThan(MaxSupply(d)) {
				continue
			}

			got, err := BaseUnits(supply, d)
			if err != nil {
				t.Fatalf("BaseUnits(%s, %d): %v", s, d, err)
			}

			want := supply.Shift(int32(d)).BigInt()
			if want.Uint64() != got {
				t.Errorf("BaseUnits(%s, %d) = %d, want %s", s, d, got, want.String())
			}

			back := FromBaseUnits(got, d)
			if !back.Equal(supply) {
				t.Errorf("round trip %s with %d decimals returned %s", s, d, back.String())
			}
		}
	}
}

func TestBaseUnits_LargeSupplyNoFloatTruncation(t *testing.T) {
	// 9_007_199_254_740_993 is not representable as float64.
	supply := decimal.RequireFromString("9007199254")
	got, err := BaseUnits(supply, 9)
	if err != nil {
		t.Fatalf("BaseUnits: %v", err)
	}
	if got != 9_007_199_254_000_000_000 {
		t.Errorf("got %d", got)
	}
}

func TestBaseUnits_Overflow(t *testing.T) {
	_, err := BaseUnits(decimal.RequireFromString("18446744074"), 9)
	if !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
}

func TestBaseUnits_Fractional(t *testing.T) {
	_, err := BaseUnits(decimal.RequireFromString("1.5"), 0)
	if !errors.Is(err, ErrFractionalAmount) {
		t.Fatalf("expected ErrFractionalAmount, got %v", err)
	}

	got, err := BaseUnits(decimal.RequireFromString("1.5"), 2)
	if err != nil {
		t.Fatalf("BaseUnits: %v", err)
	}
	if got != 150 {
		t.Errorf("expected 150, got %d", got)
	}
}

func TestMaxSupply(t *testing.T) {
	tests := []struct {
		decimals uint8
		want     string
	}{
		{0, "18446744073709551615"},
		{8, "184467440737"},
		{9, "18446744073"},
	}
	for _, tt := range tests {
		if got := MaxSupply(tt.decimals).String(); got != tt.want {
			t.Errorf("MaxSupply(%d) = %s, want %s", tt.decimals, got, tt.want)
		}
	}

	if _, err := BaseUnits(MaxSupply(0), 0); err != nil {
		t.Errorf("MaxSupply(0) should fit: %v", err)
	}
	if MaxSupply(0).BigInt().Uint64() != math.MaxUint64 {
		t.Error("MaxSupply(0) should equal MaxUint64")
	}
}

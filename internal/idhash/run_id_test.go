package idhash

import (
	"testing"
)

func TestComputeRunID(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		symbol    string
		startedAt int64
		wantLen   int // hash length should be 64
	}{
		{
			name:      "basic run",
			owner:     "Bdwf9SWWnPZT3EP5VSiGfRvSowahxdyUUYLM3RANrXQ2",
			symbol:    "TST",
			startedAt: 1704067234567,
			wantLen:   64,
		},
		{
			name:      "empty symbol",
			owner:     "Bdwf9SWWnPZT3EP5VSiGfRvSowahxdyUUYLM3RANrXQ2",
			symbol:    "",
			startedAt: 1704067300000,
			wantLen:   64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRunID(tt.owner, tt.symbol, tt.startedAt)

			if len(got) != tt.wantLen {
				t.Errorf("ComputeRunID() length = %d, want %d", len(got), tt.wantLen)
			}

			// Verify determinism: same inputs should produce same output
			got2 := ComputeRunID(tt.owner, tt.symbol, tt.startedAt)
			if got != got2 {
				t.Errorf("ComputeRunID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeRunID_DifferentInputs(t *testing.T) {
	base := ComputeRunID("Owner", "TST", 1000)

	if base == ComputeRunID("Other", "TST", 1000) {
		t.Error("Different owner should produce different hash")
	}
	if base == ComputeRunID("Owner", "TST2", 1000) {
		t.Error("Different symbol should produce different hash")
	}
	if base == ComputeRunID("Owner", "TST", 1001) {
		t.Error("Different start time should produce different hash")
	}
}

func TestComputeRunID_KnownValue(t *testing.T) {
	// printf 'a|b|1' | sha256sum
	want := "44902f320ef1cf98ede91721825f6f83b6860ddff82aad6e028ef851b0865116"
	if got := ComputeRunID("a", "b", 1); got != want {
		t.Errorf("ComputeRunID() = %s, want %s", got, want)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("ShortID() = %s", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID() = %s", got)
	}
}

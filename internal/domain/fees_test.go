package domain

import "testing"

func TestFeePolicy_Schedule(t *testing.T) {
	p := DefaultFeePolicy()

	tests := []struct {
		name         string
		revokeFreeze bool
		revokeMint   bool
		wantTotal    string
		wantLamports uint64
	}{
		{"none", false, false, "0.25", 252_000_000},
		{"freeze", true, false, "0.3", 302_000_000},
		{"mint", false, true, "0.3", 302_000_000},
		{"both", true, true, "0.35", 352_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := p.Schedule(tt.revokeFreeze, tt.revokeMint)
			if got := fs.Total().String(); got != tt.wantTotal {
				t.Errorf("Total = %s, want %s", got, tt.wantTotal)
			}
			if got := fs.RequiredLamports(); got != tt.wantLamports {
				t.Errorf("RequiredLamports = %d, want %d", got, tt.wantLamports)
			}
		})
	}
}

func TestLamportsToSOL(t *testing.T) {
	if got := LamportsToSOL(123_456_789).StringFixed(4); got != "0.1235" {
		t.Errorf("got %s", got)
	}
}

package khalon

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestImportEconomy(t *testing.T) {
	testCases := []struct {
		name string
		dump string
		want map[string]int64
	}{
		{
			name: "flat dump",
			dump: `{"alice": {"balance": 120}, "bob": {"balance": 5}}`,
			want: map[string]int64{"alice": 120, "bob": 5, "carol": 40},
		},
		{
			name: "dump wrapped in users",
			dump: `{"users": {"alice": {"balance": 120}, "bob": {"balance": 5}}}`,
			want: map[string]int64{"alice": 120, "bob": 5, "carol": 40},
		},
		{
			name: "dump wrapped in data",
			dump: `{"data": {"carol": {"balance": 7}}}`,
			want: map[string]int64{"carol": 47},
		},
		{
			name: "existing balances are added to",
			dump: `{"carol": {"balance": 10}}`,
			want: map[string]int64{"carol": 50},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ledger := newTestMarket(t)
			if _, err := ledger.Deposit("carol", K(40)); err != nil {
				t.Fatalf("Deposit() error = %v", err)
			}

			if _, err := ImportEconomy(strings.NewReader(tc.dump), ledger); err != nil {
				t.Fatalf("ImportEconomy() error = %v", err)
			}
			for id, want := range tc.want {
				if got := ledger.Balance(id); got.Int64() != want {
					t.Errorf("Balance(%s) = %v, want %d", id, got, want)
				}
			}
		})
	}

	t.Run("negative balance is rejected", func(t *testing.T) {
		_, ledger := newTestMarket(t)
		dump := `{"alice": {"balance": -3}}`
		if _, err := ImportEconomy(strings.NewReader(dump), ledger); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ImportEconomy() error = %v, want ErrInvalidAmount", err)
		}
		if bal := ledger.Balance("alice"); !bal.IsZero() {
			t.Errorf("Balance(alice) = %v, want nothing imported", bal)
		}
	})

	t.Run("garbage dump is rejected", func(t *testing.T) {
		_, ledger := newTestMarket(t)
		if _, err := ImportEconomy(strings.NewReader("[1, 2, 3]"), ledger); err == nil {
			t.Error("ImportEconomy() error = nil, want no record table")
		}
	})
}

func TestImportStocks(t *testing.T) {
	market, _ := newTestMarket(t)
	if err := market.AddListing("KLN", "Khalon Corp", P(10)); err != nil {
		t.Fatalf("AddListing() error = %v", err)
	}

	dump := `{"KLN": {"name": "Old Khalon", "price": 99}, "ZED": {"name": "Zed Industries", "price": 5.5}}`
	count, err := ImportStocks(strings.NewReader(dump), market)
	if err != nil {
		t.Fatalf("ImportStocks() error = %v", err)
	}
	if count != 1 {
		t.Errorf("ImportStocks() = %d, want 1 new listing", count)
	}

	// The existing listing is untouched, the new one is added.
	if listing, _ := market.Listing("KLN"); !listing.Price.Equal(P(10)) || listing.Name != "Khalon Corp" {
		t.Errorf("Listing(KLN) = %+v, want the pre-import listing", listing)
	}
	listing, ok := market.Listing("ZED")
	if !ok || !listing.Price.Equal(P(5.5)) {
		t.Errorf("Listing(ZED) = %+v, %v, want imported at 5.5", listing, ok)
	}
}

func TestImportXP(t *testing.T) {
	levels := newTestLevels(t)
	if _, _, err := levels.AwardXP("alice", 500); err != nil {
		t.Fatalf("AwardXP() error = %v", err)
	}

	dump := `{"alice": {"xp": 80, "level": 0}, "bob": {"xp": 160, "level": 2}}`
	count, err := ImportXP(strings.NewReader(dump), levels)
	if err != nil {
		t.Fatalf("ImportXP() error = %v", err)
	}
	if count != 2 {
		t.Errorf("ImportXP() = %d, want 2", count)
	}

	// alice keeps her higher local record, bob comes in from the dump.
	if rec, _ := levels.Rank("alice"); rec.XP != 500 {
		t.Errorf("Rank(alice) = %+v, want the local xp 500 kept", rec)
	}
	if rec, ok := levels.Rank("bob"); !ok || rec.XP != 160 || rec.Level != 2 {
		t.Errorf("Rank(bob) = %+v, %v, want imported xp 160 level 2", rec, ok)
	}
}

func TestExportEconomyRoundTrips(t *testing.T) {
	_, ledger := newTestMarket(t)
	for id, amount := range map[string]int64{"alice": 120, "bob": 5} {
		if _, err := ledger.Deposit(id, K(amount)); err != nil {
			t.Fatalf("Deposit(%s) error = %v", id, err)
		}
	}

	var buf bytes.Buffer
	if err := ExportEconomy(&buf, ledger); err != nil {
		t.Fatalf("ExportEconomy() error = %v", err)
	}

	_, fresh := newTestMarket(t)
	if _, err := ImportEconomy(&buf, fresh); err != nil {
		t.Fatalf("ImportEconomy() error = %v", err)
	}
	if bal := fresh.Balance("alice"); bal.Int64() != 120 {
		t.Errorf("Balance(alice) = %v, want 120", bal)
	}
	if bal := fresh.Balance("bob"); bal.Int64() != 5 {
		t.Errorf("Balance(bob) = %v, want 5", bal)
	}
}

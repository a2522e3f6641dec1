package khalon

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLedger_TopAccounts(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	journal := NewTransactionLog(filepath.Join(dir, "transactions.log"))
	ledger, err := NewLedger(store, journal)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	for id, amount := range map[string]int64{
		"alice": 50,
		"bob":   200,
		"carol": 200,
		"dave":  10,
	} {
		if _, err := ledger.Deposit(id, K(amount)); err != nil {
			t.Fatalf("Deposit(%s) error = %v", id, err)
		}
	}

	testCases := []struct {
		name string
		n    int
		want []Standing
	}{
		{
			name: "top three with a tie broken by id",
			n:    3,
			want: []Standing{
				{AccountID: "bob", Balance: K(200)},
				{AccountID: "carol", Balance: K(200)},
				{AccountID: "alice", Balance: K(50)},
			},
		},
		{
			name: "n larger than population",
			n:    10,
			want: []Standing{
				{AccountID: "bob", Balance: K(200)},
				{AccountID: "carol", Balance: K(200)},
				{AccountID: "alice", Balance: K(50)},
				{AccountID: "dave", Balance: K(10)},
			},
		},
		{name: "zero", n: 0, want: nil},
		{name: "negative", n: -1, want: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ledger.TopAccounts(tc.n)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("TopAccounts(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

package khalon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestLedger creates a ledger persisting into a fresh temp directory.
func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
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
	return ledger, dir
}

func TestLedger_BalanceUnknownAccount(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if got := ledger.Balance("ghost"); !got.IsZero() {
		t.Errorf("Balance(ghost) = %v, want 0", got)
	}
	// Reading must not create the account.
	for id := range ledger.Accounts() {
		t.Errorf("unexpected account %q created by a read", id)
	}
}

func TestLedger_Transfer(t *testing.T) {
	testCases := []struct {
		name       string
		from, to   string
		amount     int64
		wantErr    error
		wantAlice  int64
		wantBob    int64
		wantResult TransferResult
	}{
		{
			name: "conserves total", from: "alice", to: "bob", amount: 30,
			wantAlice: 70, wantBob: 30,
			wantResult: TransferResult{From: K(70), To: K(30)},
		},
		{
			name: "whole balance", from: "alice", to: "bob", amount: 100,
			wantAlice: 0, wantBob: 100,
			wantResult: TransferResult{From: K(0), To: K(100)},
		},
		{
			name: "insufficient funds", from: "alice", to: "bob", amount: 101,
			wantErr: ErrInsufficientFunds, wantAlice: 100, wantBob: 0,
		},
		{
			name: "zero amount", from: "alice", to: "bob", amount: 0,
			wantErr: ErrInvalidAmount, wantAlice: 100, wantBob: 0,
		},
		{
			name: "negative amount", from: "alice", to: "bob", amount: -5,
			wantErr: ErrInvalidAmount, wantAlice: 100, wantBob: 0,
		},
		{
			name: "self transfer", from: "alice", to: "alice", amount: 10,
			wantErr: ErrInvalidAmount, wantAlice: 100, wantBob: 0,
		},
		{
			name: "from empty account", from: "bob", to: "alice", amount: 1,
			wantErr: ErrInsufficientFunds, wantAlice: 100, wantBob: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger, _ := newTestLedger(t)
			if _, err := ledger.Deposit("alice", K(100)); err != nil {
				t.Fatalf("Deposit() error = %v", err)
			}

			got, err := ledger.Transfer(tc.from, tc.to, K(tc.amount))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Transfer() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && got != tc.wantResult {
				t.Errorf("Transfer() = %+v, want %+v", got, tc.wantResult)
			}
			if bal := ledger.Balance("alice"); bal.Int64() != tc.wantAlice {
				t.Errorf("Balance(alice) = %v, want %d", bal, tc.wantAlice)
			}
			if bal := ledger.Balance("bob"); bal.Int64() != tc.wantBob {
				t.Errorf("Balance(bob) = %v, want %d", bal, tc.wantBob)
			}
		})
	}
}

func TestLedger_TransferDoesNotCreateRecipientOnFailure(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if _, err := ledger.Deposit("alice", K(10)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	if _, err := ledger.Transfer("alice", "bob", K(20)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Transfer() error = %v, want ErrInsufficientFunds", err)
	}
	for id := range ledger.Accounts() {
		if id == "bob" {
			t.Error("failed transfer created the recipient account")
		}
	}
}

func TestLedger_DepositWithdraw(t *testing.T) {
	ledger, _ := newTestLedger(t)

	got, err := ledger.Deposit("alice", K(100))
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if got.Int64() != 100 {
		t.Errorf("Deposit() = %v, want 100", got)
	}

	got, err = ledger.Withdraw("alice", K(40))
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if got.Int64() != 60 {
		t.Errorf("Withdraw() = %v, want 60", got)
	}

	if _, err := ledger.Withdraw("alice", K(61)); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Withdraw() error = %v, want ErrInsufficientFunds", err)
	}
	if _, err := ledger.Withdraw("alice", K(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Withdraw() error = %v, want ErrInvalidAmount", err)
	}
	if bal := ledger.Balance("alice"); bal.Int64() != 60 {
		t.Errorf("Balance(alice) = %v, want 60 after rejected withdrawals", bal)
	}
}

func TestLedger_PersistFailureRollsBack(t *testing.T) {
	ledger, dir := newTestLedger(t)
	if _, err := ledger.Deposit("alice", K(100)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	// Removing the store directory makes the next persist fail.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	if _, err := ledger.Transfer("alice", "bob", K(30)); !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("Transfer() error = %v, want ErrStoreWrite", err)
	}
	// In-memory state must match the last durable state.
	if bal := ledger.Balance("alice"); bal.Int64() != 100 {
		t.Errorf("Balance(alice) = %v, want 100 after rollback", bal)
	}
	if bal := ledger.Balance("bob"); !bal.IsZero() {
		t.Errorf("Balance(bob) = %v, want 0 after rollback", bal)
	}
}

func TestLedger_ZeroCreditDebitAreNoOps(t *testing.T) {
	ledger, _ := newTestLedger(t)

	if _, err := ledger.credit("ghost", K(0)); err != nil {
		t.Fatalf("credit(0) error = %v", err)
	}
	if _, err := ledger.debit("ghost", K(0)); err != nil {
		t.Fatalf("debit(0) error = %v", err)
	}
	for id := range ledger.Accounts() {
		t.Errorf("account %q created by a zero-amount mutation", id)
	}
}

func TestLedger_Reload(t *testing.T) {
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
	if _, err := ledger.Deposit("alice", K(100)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if _, err := ledger.Transfer("alice", "bob", K(25)); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	// A second process lifecycle sees the persisted balances.
	reloaded, err := NewLedger(store, journal)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	if bal := reloaded.Balance("alice"); bal.Int64() != 75 {
		t.Errorf("Balance(alice) = %v, want 75 after reload", bal)
	}
	if bal := reloaded.Balance("bob"); bal.Int64() != 25 {
		t.Errorf("Balance(bob) = %v, want 25 after reload", bal)
	}
}

func TestLedger_CorruptCollectionFallsBackEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	ledger, err := NewLedger(store, NewTransactionLog(filepath.Join(dir, "transactions.log")))
	if err != nil {
		t.Fatalf("NewLedger() error = %v, want corrupt fallback", err)
	}
	if bal := ledger.Balance("alice"); !bal.IsZero() {
		t.Errorf("Balance(alice) = %v, want 0 in fallback collection", bal)
	}
}

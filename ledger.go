package khalon

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"sync"
)

// Account is a balance record keyed by an opaque user identifier. Accounts
// are created lazily on the first write that credits them and never deleted.
type Account struct {
	Balance Money `json:"balance"`
}

// TransferResult reports the balances of both parties after a successful
// transfer.
type TransferResult struct {
	From Money // new balance of the sender
	To   Money // new balance of the recipient
}

// Ledger maintains account balances and executes transfers with
// all-or-nothing semantics: the debit, credit, persistence and journal entry
// of a mutation form one logical unit. If persistence fails, the in-memory
// change is rolled back before the error is reported, so memory never
// diverges from disk.
//
// All mutating operations serialize on a single write lock; read-only
// operations share a read lock and observe consistent snapshots.
type Ledger struct {
	mu       sync.RWMutex
	store    *Store
	journal  *TransactionLog
	accounts map[string]Account
}

// NewLedger loads the account collection from the store. A corrupt
// collection is logged and replaced by an empty one: availability wins over
// this non-critical data.
func NewLedger(store *Store, journal *TransactionLog) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		journal:  journal,
		accounts: make(map[string]Account),
	}
	if err := store.Load(colAccounts, &l.accounts); err != nil {
		if !errors.Is(err, ErrStoreCorrupt) {
			return nil, err
		}
		log.Printf("warning: %v, starting with an empty account collection", err)
		l.accounts = make(map[string]Account)
	}
	return l, nil
}

// Balance returns the balance of an account, zero for an unknown one.
// Reading never creates the account.
func (l *Ledger) Balance(accountID string) Money {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.accounts[accountID].Balance
}

// Accounts iterates over all accounts in ascending id order.
func (l *Ledger) Accounts() iter.Seq2[string, Account] {
	return func(yield func(string, Account) bool) {
		l.mu.RLock()
		ids := slices.Sorted(maps.Keys(l.accounts))
		snapshot := maps.Clone(l.accounts)
		l.mu.RUnlock()
		for _, id := range ids {
			if !yield(id, snapshot[id]) {
				return
			}
		}
	}
}

// Transfer moves amount from one account to the other. It fails with
// ErrInvalidAmount for a non-positive amount or a self-transfer, and with
// ErrInsufficientFunds when the sender cannot cover it; in both cases no
// state changes.
func (l *Ledger) Transfer(fromID, toID string, amount Money) (TransferResult, error) {
	if !amount.IsPositive() {
		return TransferResult{}, fmt.Errorf("cannot transfer %s: %w", amount, ErrInvalidAmount)
	}
	if fromID == toID {
		return TransferResult{}, fmt.Errorf("cannot transfer from %s to itself: %w", fromID, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from := l.accounts[fromID]
	if from.Balance.LessThan(amount) {
		return TransferResult{}, fmt.Errorf("balance %s cannot cover %s: %w", from.Balance, amount, ErrInsufficientFunds)
	}
	to, toExisted := l.accounts[toID]

	l.accounts[fromID] = Account{Balance: from.Balance.Sub(amount)}
	l.accounts[toID] = Account{Balance: to.Balance.Add(amount)}

	if err := l.store.Save(colAccounts, l.accounts); err != nil {
		l.accounts[fromID] = from
		if toExisted {
			l.accounts[toID] = to
		} else {
			delete(l.accounts, toID)
		}
		return TransferResult{}, err
	}

	l.logf("%s sent %s to %s", fromID, amount, toID)
	return TransferResult{
		From: l.accounts[fromID].Balance,
		To:   l.accounts[toID].Balance,
	}, nil
}

// Deposit credits amount to the account, creating it if needed, and returns
// the new balance.
func (l *Ledger) Deposit(accountID string, amount Money) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, fmt.Errorf("cannot deposit %s: %w", amount, ErrInvalidAmount)
	}
	balance, err := l.credit(accountID, amount)
	if err != nil {
		return Money{}, err
	}
	l.logf("%s deposited %s", accountID, amount)
	return balance, nil
}

// Withdraw debits amount from the account and returns the new balance. It
// fails with ErrInsufficientFunds (leaving state unchanged) when the balance
// cannot cover it.
func (l *Ledger) Withdraw(accountID string, amount Money) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, fmt.Errorf("cannot withdraw %s: %w", amount, ErrInvalidAmount)
	}
	balance, err := l.debit(accountID, amount)
	if err != nil {
		return Money{}, err
	}
	l.logf("%s withdrew %s", accountID, amount)
	return balance, nil
}

// credit adds amount to an account and persists, without a journal entry.
// The market engine uses it so a trade produces a single journal line. Like
// debit, a zero-amount credit is a no-op that never creates an account.
func (l *Ledger) credit(accountID string, amount Money) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, existed := l.accounts[accountID]
	if amount.IsZero() {
		return prev.Balance, nil
	}
	l.accounts[accountID] = Account{Balance: prev.Balance.Add(amount)}
	if err := l.store.Save(colAccounts, l.accounts); err != nil {
		if existed {
			l.accounts[accountID] = prev
		} else {
			delete(l.accounts, accountID)
		}
		return Money{}, err
	}
	return l.accounts[accountID].Balance, nil
}

// debit removes amount from an account and persists, without a journal
// entry. A zero-amount debit is a no-op that never creates an account.
func (l *Ledger) debit(accountID string, amount Money) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, existed := l.accounts[accountID]
	if prev.Balance.LessThan(amount) {
		return Money{}, fmt.Errorf("balance %s cannot cover %s: %w", prev.Balance, amount, ErrInsufficientFunds)
	}
	if amount.IsZero() {
		return prev.Balance, nil
	}
	l.accounts[accountID] = Account{Balance: prev.Balance.Sub(amount)}
	if err := l.store.Save(colAccounts, l.accounts); err != nil {
		if existed {
			l.accounts[accountID] = prev
		} else {
			delete(l.accounts, accountID)
		}
		return Money{}, err
	}
	return l.accounts[accountID].Balance, nil
}

// setAccounts replaces the account collection wholesale. Used by the legacy
// import, which owns its own merge logic.
func (l *Ledger) setAccounts(accounts map[string]Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.accounts
	l.accounts = accounts
	if err := l.store.Save(colAccounts, l.accounts); err != nil {
		l.accounts = prev
		return err
	}
	return nil
}

// logf records a journal entry for an already persisted mutation. The
// journal is an audit trail, not the source of truth, so an append failure
// is logged and swallowed rather than undoing a durable balance change.
func (l *Ledger) logf(format string, args ...any) {
	if err := l.journal.Printf(format, args...); err != nil {
		log.Printf("warning: could not record transaction: %v", err)
	}
}

package khalon

import "errors"

// Sentinel errors returned by the engines. They are all local and
// recoverable: callers match them with errors.Is and report the failure to
// the requesting user, the process keeps running.
var (
	// ErrInvalidAmount reports a transfer, deposit or withdrawal whose amount
	// is not a positive whole number of Khal, or a transfer to self.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity reports a trade with a non-positive share quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice reports a listing price that is not strictly positive.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInsufficientFunds reports a debit larger than the account balance.
	// No state changes when it is returned.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares reports a sell larger than the held position.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrDuplicateSymbol reports an attempt to list an already listed symbol.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrUnknownSymbol reports an operation on a symbol that is not listed,
	// or that has been delisted.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrStoreCorrupt reports a persisted collection that does not parse.
	// Engines recover by falling back to an empty collection.
	ErrStoreCorrupt = errors.New("store corrupt")

	// ErrStoreWrite reports an I/O failure while persisting a collection or
	// appending to the transaction log. In-memory state is rolled back first,
	// so it never diverges from durable state.
	ErrStoreWrite = errors.New("store write failed")
)

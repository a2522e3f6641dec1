package khalon

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Listing is a tradable symbol with an admin-set price. A delisted symbol
// keeps its record (and its holders keep their positions) so later
// reconciliation stays possible, but it can no longer be traded.
type Listing struct {
	Name     string `json:"name"`
	Price    Price  `json:"price"`
	Delisted bool   `json:"delisted,omitempty"`
}

// Listed pairs a symbol with its listing, for ranked views.
type Listed struct {
	Symbol string
	Listing
}

// Position is an account's holding in a listing: a share count and the
// weighted-average cost paid per share. Quantity is never negative.
type Position struct {
	Quantity    int64 `json:"quantity"`
	AverageCost Price `json:"averageCost"`
}

// Holding is a Position joined with its listing, as reported to the user.
type Holding struct {
	Symbol      string
	Name        string
	Quantity    int64
	AverageCost Price
	Price       Price
	MarketValue Money
	Delisted    bool
}

// Market manages stock listings and per-account positions. Trades settle
// through the ledger: a buy withdraws the cost, a sell deposits the
// proceeds, and either produces exactly one journal entry.
type Market struct {
	mu        sync.RWMutex
	store     *Store
	journal   *TransactionLog
	ledger    *Ledger
	listings  map[string]Listing
	positions map[string]map[string]Position // account id -> symbol -> position
}

// NewMarket loads the listing and position collections from the store,
// falling back to empty collections on corruption like the ledger does.
func NewMarket(store *Store, journal *TransactionLog, ledger *Ledger) (*Market, error) {
	m := &Market{
		store:     store,
		journal:   journal,
		ledger:    ledger,
		listings:  make(map[string]Listing),
		positions: make(map[string]map[string]Position),
	}
	if err := store.Load(colListings, &m.listings); err != nil {
		if !errors.Is(err, ErrStoreCorrupt) {
			return nil, err
		}
		log.Printf("warning: %v, starting with an empty listing collection", err)
		m.listings = make(map[string]Listing)
	}
	if err := store.Load(colPositions, &m.positions); err != nil {
		if !errors.Is(err, ErrStoreCorrupt) {
			return nil, err
		}
		log.Printf("warning: %v, starting with an empty position collection", err)
		m.positions = make(map[string]map[string]Position)
	}
	return m, nil
}

// Listing returns the listing for a symbol, delisted ones included.
func (m *Market) Listing(symbol string) (Listing, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	listing, ok := m.listings[symbol]
	return listing, ok
}

// Listings returns all listings in ascending symbol order, delisted ones
// included.
func (m *Market) Listings() []Listed {
	m.mu.RLock()
	defer m.mu.RUnlock()

	listed := make([]Listed, 0, len(m.listings))
	for _, symbol := range slices.Sorted(maps.Keys(m.listings)) {
		listed = append(listed, Listed{Symbol: symbol, Listing: m.listings[symbol]})
	}
	return listed
}

// AddListing creates a new tradable symbol. Re-adding a delisted symbol
// revives it with the new name and price; re-adding an active one fails with
// ErrDuplicateSymbol.
func (m *Market) AddListing(symbol, name string, price Price) error {
	if !price.IsPositive() {
		return fmt.Errorf("cannot list %s at %s: %w", symbol, price, ErrInvalidPrice)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.listings[symbol]; ok && !prev.Delisted {
		return fmt.Errorf("%s is already listed: %w", symbol, ErrDuplicateSymbol)
	}
	return m.saveListing(symbol, Listing{Name: name, Price: price})
}

// RemoveListing marks a symbol as delisted. Open positions are not touched:
// they persist with the delisted marker instead of being destroyed.
func (m *Market) RemoveListing(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing, ok := m.listings[symbol]
	if !ok || listing.Delisted {
		return fmt.Errorf("cannot delist %s: %w", symbol, ErrUnknownSymbol)
	}
	listing.Delisted = true
	return m.saveListing(symbol, listing)
}

// SetPrice updates the trading price of an active symbol.
func (m *Market) SetPrice(symbol string, price Price) error {
	if !price.IsPositive() {
		return fmt.Errorf("cannot price %s at %s: %w", symbol, price, ErrInvalidPrice)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	listing, ok := m.listings[symbol]
	if !ok || listing.Delisted {
		return fmt.Errorf("cannot price %s: %w", symbol, ErrUnknownSymbol)
	}
	log.Printf("%s price updated from %s to %s", symbol, listing.Price, price)
	listing.Price = price
	return m.saveListing(symbol, listing)
}

// saveListing stores a listing mutation, rolling back in memory on failure.
// Callers must hold the write lock.
func (m *Market) saveListing(symbol string, listing Listing) error {
	prev, existed := m.listings[symbol]
	m.listings[symbol] = listing
	if err := m.store.Save(colListings, m.listings); err != nil {
		if existed {
			m.listings[symbol] = prev
		} else {
			delete(m.listings, symbol)
		}
		return err
	}
	return nil
}

// Buy purchases quantity shares at the current listing price. The cost is
// withdrawn from the account (propagating ErrInsufficientFunds) and the
// position's weighted-average cost is recomputed:
//
//	newAvg = (oldQty*oldAvg + quantity*price) / (oldQty+quantity)
//
// A trade whose rounded cost is zero would hand out shares for free, so it
// is rejected as ErrInvalidQuantity: buy more shares at once instead.
func (m *Market) Buy(accountID, symbol string, quantity int64) (Position, error) {
	if quantity <= 0 {
		return Position{}, fmt.Errorf("cannot buy %d shares: %w", quantity, ErrInvalidQuantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	listing, ok := m.listings[symbol]
	if !ok {
		return Position{}, fmt.Errorf("cannot buy %s: %w", symbol, ErrUnknownSymbol)
	}
	if listing.Delisted {
		return Position{}, fmt.Errorf("cannot buy %s, it is delisted: %w", symbol, ErrUnknownSymbol)
	}

	cost := listing.Price.Cost(quantity)
	if cost.IsZero() {
		return Position{}, fmt.Errorf("cannot buy %d %s, the cost rounds to zero: %w", quantity, symbol, ErrInvalidQuantity)
	}
	if _, err := m.ledger.debit(accountID, cost); err != nil {
		return Position{}, err
	}

	old := m.positions[accountID][symbol]
	pos := Position{
		Quantity:    old.Quantity + quantity,
		AverageCost: averageCost(old, quantity, listing.Price),
	}
	if err := m.savePosition(accountID, symbol, pos); err != nil {
		m.refund(accountID, cost)
		return Position{}, err
	}

	m.logf("%s bought %d %s for %s", accountID, quantity, symbol, cost)
	return pos, nil
}

// Sell disposes of quantity shares at the current listing price, crediting
// the proceeds to the account. The average cost of the remaining position is
// unchanged. Selling more than the position fails with
// ErrInsufficientShares; selling the whole position removes it. Like Buy, a
// sale whose rounded proceeds are zero is rejected as ErrInvalidQuantity.
func (m *Market) Sell(accountID, symbol string, quantity int64) (Position, error) {
	if quantity <= 0 {
		return Position{}, fmt.Errorf("cannot sell %d shares: %w", quantity, ErrInvalidQuantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	listing, ok := m.listings[symbol]
	if !ok {
		return Position{}, fmt.Errorf("cannot sell %s: %w", symbol, ErrUnknownSymbol)
	}
	if listing.Delisted {
		return Position{}, fmt.Errorf("cannot sell %s, it is delisted: %w", symbol, ErrUnknownSymbol)
	}

	old := m.positions[accountID][symbol]
	if quantity > old.Quantity {
		return Position{}, fmt.Errorf("cannot sell %d %s, position is only %d: %w", quantity, symbol, old.Quantity, ErrInsufficientShares)
	}

	proceeds := listing.Price.Cost(quantity)
	if proceeds.IsZero() {
		return Position{}, fmt.Errorf("cannot sell %d %s, the proceeds round to zero: %w", quantity, symbol, ErrInvalidQuantity)
	}
	if _, err := m.ledger.credit(accountID, proceeds); err != nil {
		return Position{}, err
	}

	pos := Position{Quantity: old.Quantity - quantity, AverageCost: old.AverageCost}
	if err := m.savePosition(accountID, symbol, pos); err != nil {
		if _, debitErr := m.ledger.debit(accountID, proceeds); debitErr != nil {
			log.Printf("error: could not revert proceeds of failed sale: %v", debitErr)
		}
		return Position{}, err
	}

	m.logf("%s sold %d %s for %s", accountID, quantity, symbol, proceeds)
	return pos, nil
}

// Position returns the account's position in a symbol, zero if none.
func (m *Market) Position(accountID, symbol string) Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[accountID][symbol]
}

// Portfolio reports the account's holdings joined with their listings, in
// ascending symbol order. Delisted holdings are valued at the last known
// price.
func (m *Market) Portfolio(accountID string) []Holding {
	m.mu.RLock()
	defer m.mu.RUnlock()

	held := m.positions[accountID]
	holdings := make([]Holding, 0, len(held))
	for _, symbol := range slices.Sorted(maps.Keys(held)) {
		pos := held[symbol]
		listing := m.listings[symbol]
		holdings = append(holdings, Holding{
			Symbol:      symbol,
			Name:        listing.Name,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost,
			Price:       listing.Price,
			MarketValue: listing.Price.Cost(pos.Quantity),
			Delisted:    listing.Delisted,
		})
	}
	return holdings
}

// savePosition stores a position mutation, removing emptied records, and
// rolls back in memory on failure. Callers must hold the write lock.
func (m *Market) savePosition(accountID, symbol string, pos Position) error {
	held, hadAccount := m.positions[accountID]
	old, hadPosition := held[symbol]

	if pos.Quantity == 0 {
		delete(held, symbol)
		if len(held) == 0 {
			delete(m.positions, accountID)
		}
	} else {
		if held == nil {
			held = make(map[string]Position)
			m.positions[accountID] = held
		}
		held[symbol] = pos
	}

	if err := m.store.Save(colPositions, m.positions); err != nil {
		switch {
		case hadPosition:
			if m.positions[accountID] == nil {
				m.positions[accountID] = make(map[string]Position)
			}
			m.positions[accountID][symbol] = old
		case hadAccount:
			delete(m.positions[accountID], symbol)
		default:
			delete(m.positions, accountID)
		}
		return err
	}
	return nil
}

// refund undoes the ledger debit of a buy whose position could not be
// persisted.
func (m *Market) refund(accountID string, cost Money) {
	if cost.IsZero() {
		return
	}
	if _, err := m.ledger.credit(accountID, cost); err != nil {
		log.Printf("error: could not refund cost of failed purchase: %v", err)
	}
}

// averageCost computes the weighted-average cost basis after acquiring
// quantity shares at price on top of an existing position.
func averageCost(old Position, quantity int64, price Price) Price {
	held := decimal.NewFromInt(old.Quantity).Mul(old.AverageCost.value)
	bought := decimal.NewFromInt(quantity).Mul(price.value)
	total := decimal.NewFromInt(old.Quantity + quantity)
	return Price{value: held.Add(bought).Div(total)}
}

func (m *Market) logf(format string, args ...any) {
	if err := m.journal.Printf(format, args...); err != nil {
		log.Printf("warning: could not record transaction: %v", err)
	}
}

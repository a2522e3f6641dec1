package khalon

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// this file handles the one-shot migration from the original khalon bot data
// files (economy.json, stocks.json, xpData.json) into the store collections,
// plus the matching export format. Depending on which host dumped them, the
// record table sits either at the top level or nested under a wrapper
// property, so imports probe a few jsonpath locations before giving up.

// legacyTables are the jsonpath queries probed, in order, to find the record
// table in a legacy dump.
var legacyTables = []string{"$.users", "$.data", "$"}

// findLegacyTable decodes r and returns the first record table found.
func findLegacyTable(r io.Reader) (map[string]any, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse legacy dump: %w", err)
	}
	for _, path := range legacyTables {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if table, ok := jval.(map[string]any); ok && len(table) > 0 {
			return table, nil
		}
	}
	return nil, fmt.Errorf("cannot find a record table in legacy dump")
}

// decodeRecord re-marshals one table entry into the typed record v.
func decodeRecord(id string, entry any, v any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cannot read legacy record %q: %w", id, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("cannot parse legacy record %q: %w", id, err)
	}
	return nil
}

// ImportEconomy merges a legacy economy.json dump into the ledger. Balances
// from the dump are added to any existing balance, so importing is safe on a
// non-empty ledger. It returns the number of imported accounts.
func ImportEconomy(r io.Reader, ledger *Ledger) (int, error) {
	table, err := findLegacyTable(r)
	if err != nil {
		return 0, err
	}

	merged := make(map[string]Account)
	for id, account := range ledger.Accounts() {
		merged[id] = account
	}
	count := 0
	for id, entry := range table {
		var rec Account
		if err := decodeRecord(id, entry, &rec); err != nil {
			return 0, err
		}
		if rec.Balance.IsNegative() {
			return 0, fmt.Errorf("legacy account %q has balance %s: %w", id, rec.Balance, ErrInvalidAmount)
		}
		merged[id] = Account{Balance: merged[id].Balance.Add(rec.Balance)}
		count++
	}

	if err := ledger.setAccounts(merged); err != nil {
		return 0, err
	}
	return count, nil
}

// ImportStocks adds listings from a legacy stocks.json dump to the market.
// Symbols already listed are skipped rather than overwritten. It returns the
// number of new listings.
func ImportStocks(r io.Reader, market *Market) (int, error) {
	table, err := findLegacyTable(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for symbol, entry := range table {
		var rec Listing
		if err := decodeRecord(symbol, entry, &rec); err != nil {
			return 0, err
		}
		if _, ok := market.Listing(symbol); ok {
			continue
		}
		if err := market.AddListing(symbol, rec.Name, rec.Price); err != nil {
			return 0, fmt.Errorf("cannot import listing %q: %w", symbol, err)
		}
		count++
	}
	return count, nil
}

// ImportXP merges a legacy xpData.json dump into the level tracker, keeping
// whichever record has more experience when both sides know the account. It
// returns the number of imported records.
func ImportXP(r io.Reader, levels *Levels) (int, error) {
	table, err := findLegacyTable(r)
	if err != nil {
		return 0, err
	}

	levels.mu.RLock()
	merged := make(map[string]Progress, len(levels.records))
	for id, rec := range levels.records {
		merged[id] = rec
	}
	levels.mu.RUnlock()

	count := 0
	for id, entry := range table {
		var rec Progress
		if err := decodeRecord(id, entry, &rec); err != nil {
			return 0, err
		}
		if existing, ok := merged[id]; !ok || rec.XP > existing.XP {
			merged[id] = rec
		}
		count++
	}

	if err := levels.setRecords(merged); err != nil {
		return 0, err
	}
	return count, nil
}

// ExportEconomy writes the ledger accounts to w in the legacy economy.json
// format, records keyed by account id at the top level. The export is a
// valid import.
func ExportEconomy(w io.Writer, ledger *Ledger) error {
	accounts := make(map[string]Account)
	for id, account := range ledger.Accounts() {
		accounts[id] = account
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(accounts); err != nil {
		return fmt.Errorf("cannot export accounts: %w", err)
	}
	return nil
}

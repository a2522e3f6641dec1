// Package khalon provides the economy engine behind the Khalon chat bot.
// It is designed to be local-first and auditable: every mutation is persisted
// to small human-readable JSON collections and recorded in an append-only
// text transaction log.
//
// The core functionalities include:
//   - Ledger Engine: integer Khal balances keyed by account id, with
//     all-or-nothing transfers, deposits and withdrawals that can never
//     drive a balance negative.
//   - Market Engine: stock listings with an admin-set price, and per-account
//     positions tracked with a weighted-average cost basis.
//   - Leaderboard: a read-only ranked view over account balances.
//   - Leveling: per-account experience points with a configurable level curve.
//   - Data Persistence: a durable record store that loads each collection at
//     startup and atomically rewrites it after each mutation.
//
// The package has no opinion about how commands reach it: a dispatcher (chat
// gateway, the `khal` command-line tool, ...) parses user input, enforces
// authorization, and calls the engines, which return plain values and errors.
package khalon

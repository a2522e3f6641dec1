// Package renderer turns engine values into the markdown reports the
// command layer prints.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/khalonbot/khalon"
	md "github.com/nao1215/markdown"
)

// BalanceMarkdown renders a single account balance.
func BalanceMarkdown(accountID string, balance khalon.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Balance of %s", accountID))
	doc.PlainText(balance.String())

	return doc.String()
}

// LeaderboardMarkdown renders the richest accounts, best first.
func LeaderboardMarkdown(standings []khalon.Standing) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Leaderboard")
	if len(standings) == 0 {
		doc.PlainText("No accounts yet.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Rank", "Account", "Balance"},
	}
	for i, s := range standings {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			s.AccountID,
			s.Balance.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// StocksMarkdown renders the active market listings.
func StocksMarkdown(listings []khalon.Listed) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Market")

	table := md.TableSet{
		Header: []string{"Symbol", "Name", "Price"},
	}
	for _, l := range listings {
		if l.Delisted {
			continue
		}
		table.Rows = append(table.Rows, []string{l.Symbol, l.Name, l.Price.String()})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No listings yet.")
		return doc.String()
	}
	doc.Table(table)

	return doc.String()
}

// PortfolioMarkdown renders an account's holdings with their market value.
func PortfolioMarkdown(accountID string, holdings []khalon.Holding) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio of %s", accountID))
	if len(holdings) == 0 {
		doc.PlainText("No holdings.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Symbol", "Name", "Quantity", "Avg Cost", "Price", "Value"},
	}
	var total khalon.Money
	for _, h := range holdings {
		name := h.Name
		if h.Delisted {
			name += " (delisted)"
		}
		table.Rows = append(table.Rows, []string{
			h.Symbol,
			name,
			strconv.FormatInt(h.Quantity, 10),
			h.AverageCost.String(),
			h.Price.String(),
			h.MarketValue.String(),
		})
		total = total.Add(h.MarketValue)
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Total Market Value: %s", total))

	return doc.String()
}

// RankMarkdown renders an account's experience progress toward the next
// level on the given curve.
func RankMarkdown(accountID string, rec khalon.Progress, curve khalon.LevelCurve) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Rank of %s", accountID))

	next := curve.Threshold(rec.Level + 1)
	table := md.TableSet{
		Header: []string{"Level", "XP", "Next Level At"},
		Rows: [][]string{{
			strconv.Itoa(rec.Level),
			strconv.FormatInt(rec.XP, 10),
			strconv.FormatInt(next, 10),
		}},
	}
	doc.Table(table)

	return doc.String()
}

// JournalMarkdown renders the newest journal entries as a code block so the
// timestamps keep their alignment.
func JournalMarkdown(lines []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transaction Log")
	if len(lines) == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}

	var body bytes.Buffer
	for _, line := range lines {
		fmt.Fprintln(&body, line)
	}
	doc.CodeBlocks("", body.String())

	return doc.String()
}

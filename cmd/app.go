// Package cmd implements the CLI application to operate the khalon engines.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khalonbot/khalon"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&balanceCmd{}, "economy")
	c.Register(&giveCmd{}, "economy")
	c.Register(&depositCmd{}, "economy")
	c.Register(&withdrawCmd{}, "economy")
	c.Register(&leaderboardCmd{}, "economy")

	c.Register(&stocksCmd{}, "market")
	c.Register(&addStockCmd{}, "market")
	c.Register(&removeStockCmd{}, "market")
	c.Register(&setPriceCmd{}, "market")
	c.Register(&buyCmd{}, "market")
	c.Register(&sellCmd{}, "market")
	c.Register(&portfolioCmd{}, "market")

	c.Register(&rankCmd{}, "leveling")
	c.Register(&awardCmd{}, "leveling")

	c.Register(&logCmd{}, "records")
	c.Register(&importCmd{}, "records")
	c.Register(&exportCmd{}, "records")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", ".khalon", "Path to the folder holding the record collections and the transaction log")
var configFile = flag.String("config", "xp.yml", "Path to the bot config file")

// openLedger opens the store in the app data folder and loads the ledger.
func openLedger() (*khalon.Ledger, error) {
	store, err := khalon.OpenStore(*dataDir)
	if err != nil {
		return nil, err
	}
	journal := khalon.NewTransactionLog(filepath.Join(*dataDir, "transactions.log"))
	return khalon.NewLedger(store, journal)
}

// openMarket loads the market engine together with the ledger it settles
// trades against.
func openMarket() (*khalon.Market, *khalon.Ledger, error) {
	store, err := khalon.OpenStore(*dataDir)
	if err != nil {
		return nil, nil, err
	}
	journal := khalon.NewTransactionLog(filepath.Join(*dataDir, "transactions.log"))
	ledger, err := khalon.NewLedger(store, journal)
	if err != nil {
		return nil, nil, err
	}
	market, err := khalon.NewMarket(store, journal, ledger)
	if err != nil {
		return nil, nil, err
	}
	return market, ledger, nil
}

// openLevels loads the level tracker with the curve from the app config.
func openLevels() (*khalon.Levels, khalon.Config, error) {
	cfg, err := khalon.LoadConfig(*configFile)
	if err != nil {
		return nil, khalon.Config{}, err
	}
	store, err := khalon.OpenStore(*dataDir)
	if err != nil {
		return nil, khalon.Config{}, err
	}
	levels, err := khalon.NewLevels(store, cfg.Leveling)
	if err != nil {
		return nil, khalon.Config{}, err
	}
	return levels, cfg, nil
}

// checkOperator enforces the operator allow-list on admin commands. An empty
// list means the install is unmanaged and everything is allowed.
func checkOperator(actor string) (subcommands.ExitStatus, bool) {
	cfg, err := khalon.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure, false
	}
	if len(cfg.Operators) == 0 || cfg.IsOperator(actor) {
		return subcommands.ExitSuccess, true
	}
	fmt.Fprintf(os.Stderr, "Error: %q is not an operator\n", actor)
	return subcommands.ExitUsageError, false
}

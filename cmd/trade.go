package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khalonbot/khalon/renderer"
)

// --- Buy Command ---

type buyCmd struct {
	account  string
	symbol   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current price" }
func (*buyCmd) Usage() string {
	return `khal buy -a <account> -s <symbol> -n <quantity>

  Buys shares for an account, paying the listing price from its balance.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Buying account")
	f.StringVar(&c.symbol, "s", "", "Listing symbol")
	f.Int64Var(&c.quantity, "n", 0, "Number of shares")
}
func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, ledger, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	pos, err := market.Buy(c.account, c.symbol, c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s holds %d %s (avg cost %s), balance %s\n",
		c.account, pos.Quantity, c.symbol, pos.AverageCost, ledger.Balance(c.account))
	return subcommands.ExitSuccess
}

// --- Sell Command ---

type sellCmd struct {
	account  string
	symbol   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current price" }
func (*sellCmd) Usage() string {
	return `khal sell -a <account> -s <symbol> -n <quantity>

  Sells shares held by an account, crediting the proceeds to its balance.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Selling account")
	f.StringVar(&c.symbol, "s", "", "Listing symbol")
	f.Int64Var(&c.quantity, "n", 0, "Number of shares")
}
func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, ledger, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	pos, err := market.Sell(c.account, c.symbol, c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s holds %d %s, balance %s\n",
		c.account, pos.Quantity, c.symbol, ledger.Balance(c.account))
	return subcommands.ExitSuccess
}

// --- Portfolio Command ---

type portfolioCmd struct {
	account string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the holdings of an account" }
func (*portfolioCmd) Usage() string {
	return `khal portfolio -a <account>

  Displays the shares an account holds, valued at current prices.
`
}
func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to display")
}
func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, _, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PortfolioMarkdown(c.account, market.Portfolio(c.account)))
	return subcommands.ExitSuccess
}

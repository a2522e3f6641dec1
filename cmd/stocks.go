package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khalonbot/khalon"
	"github.com/khalonbot/khalon/renderer"
)

// --- Stocks Command ---

type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "display the market listings" }
func (*stocksCmd) Usage() string {
	return `khal stocks

  Displays every active listing with its current price.
`
}
func (*stocksCmd) SetFlags(*flag.FlagSet) {}
func (*stocksCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	market, _, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StocksMarkdown(market.Listings()))
	return subcommands.ExitSuccess
}

// --- AddStock Command ---

type addStockCmd struct {
	symbol string
	name   string
	price  float64
	actor  string
}

func (*addStockCmd) Name() string     { return "addstock" }
func (*addStockCmd) Synopsis() string { return "create a market listing" }
func (*addStockCmd) Usage() string {
	return `khal addstock -s <symbol> -name <name> -p <price> [-as <operator>]

  Lists a new stock on the market. Re-adding a delisted symbol revives it.
`
}
func (c *addStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Listing symbol")
	f.StringVar(&c.name, "name", "", "Display name of the company")
	f.Float64Var(&c.price, "p", 0, "Initial share price in Khal")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *addStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	market, _, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := market.AddListing(c.symbol, c.name, khalon.P(c.price)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Listed %s (%s) at %s\n", c.symbol, c.name, khalon.P(c.price))
	return subcommands.ExitSuccess
}

// --- RemoveStock Command ---

type removeStockCmd struct {
	symbol string
	actor  string
}

func (*removeStockCmd) Name() string     { return "removestock" }
func (*removeStockCmd) Synopsis() string { return "delist a stock from the market" }
func (*removeStockCmd) Usage() string {
	return `khal removestock -s <symbol> [-as <operator>]

  Removes a listing from the market. Shares already held survive the
  delisting, they just cannot be traded anymore.
`
}
func (c *removeStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Listing symbol")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *removeStockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	market, _, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := market.RemoveListing(c.symbol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Delisted %s\n", c.symbol)
	return subcommands.ExitSuccess
}

// --- SetPrice Command ---

type setPriceCmd struct {
	symbol string
	price  float64
	actor  string
}

func (*setPriceCmd) Name() string     { return "setprice" }
func (*setPriceCmd) Synopsis() string { return "change the price of a listing" }
func (*setPriceCmd) Usage() string {
	return `khal setprice -s <symbol> -p <price> [-as <operator>]

  Sets the share price of a listing. Existing positions keep their
  average cost, only future trades settle at the new price.
`
}
func (c *setPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Listing symbol")
	f.Float64Var(&c.price, "p", 0, "New share price in Khal")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *setPriceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	market, _, err := openMarket()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening market: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := market.SetPrice(c.symbol, khalon.P(c.price)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s now trades at %s\n", c.symbol, khalon.P(c.price))
	return subcommands.ExitSuccess
}

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

// --- Balance Command ---

type balanceCmd struct {
	account string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display an account balance" }
func (*balanceCmd) Usage() string {
	return `khal balance -a <account>

  Displays the Khal balance of an account. Unknown accounts show zero.
`
}
func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to display")
}
func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.BalanceMarkdown(c.account, ledger.Balance(c.account)))
	return subcommands.ExitSuccess
}

// --- Give Command ---

type giveCmd struct {
	from   string
	to     string
	amount int64
}

func (*giveCmd) Name() string     { return "give" }
func (*giveCmd) Synopsis() string { return "transfer Khal between two accounts" }
func (*giveCmd) Usage() string {
	return `khal give -f <account> -t <account> -n <amount>

  Moves a whole Khal amount from one account to another. The transfer fails
  if the sender cannot cover it.
`
}
func (c *giveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "f", "", "Sending account")
	f.StringVar(&c.to, "t", "", "Receiving account")
	f.Int64Var(&c.amount, "n", 0, "Amount of Khal to transfer")
}
func (c *giveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := ledger.Transfer(c.from, c.to, khalon.K(c.amount))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s sent %s to %s (balances now %s / %s)\n", c.from, khalon.K(c.amount), c.to, res.From, res.To)
	return subcommands.ExitSuccess
}

// --- Deposit Command ---

type depositCmd struct {
	account string
	amount  int64
	actor   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "mint Khal into an account" }
func (*depositCmd) Usage() string {
	return `khal deposit -a <account> -n <amount> [-as <operator>]

  Credits an account with new Khal. Restricted to operators when an
  operator list is configured.
`
}
func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to credit")
	f.Int64Var(&c.amount, "n", 0, "Amount of Khal to mint")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	balance, err := ledger.Deposit(c.account, khalon.K(c.amount))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s now holds %s\n", c.account, balance)
	return subcommands.ExitSuccess
}

// --- Withdraw Command ---

type withdrawCmd struct {
	account string
	amount  int64
	actor   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "burn Khal from an account" }
func (*withdrawCmd) Usage() string {
	return `khal withdraw -a <account> -n <amount> [-as <operator>]

  Removes Khal from an account. Restricted to operators when an operator
  list is configured.
`
}
func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to debit")
	f.Int64Var(&c.amount, "n", 0, "Amount of Khal to burn")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	balance, err := ledger.Withdraw(c.account, khalon.K(c.amount))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s now holds %s\n", c.account, balance)
	return subcommands.ExitSuccess
}

// --- Leaderboard Command ---

type leaderboardCmd struct {
	top int
}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "display the richest accounts" }
func (*leaderboardCmd) Usage() string {
	return `khal leaderboard [-n <count>]

  Displays the accounts with the highest balances, best first.
`
}
func (c *leaderboardCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "n", 10, "Number of accounts to display")
}
func (c *leaderboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LeaderboardMarkdown(ledger.TopAccounts(c.top)))
	return subcommands.ExitSuccess
}

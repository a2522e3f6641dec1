package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/khalonbot/khalon"
	"github.com/khalonbot/khalon/renderer"
)

// --- Log Command ---

type logCmd struct {
	count int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display the newest transaction log entries" }
func (*logCmd) Usage() string {
	return `khal log [-n <count>]

  Displays the tail of the transaction log, oldest first.
`
}
func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", 20, "Number of entries to display")
}
func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	journal := khalon.NewTransactionLog(filepath.Join(*dataDir, "transactions.log"))
	lines, err := journal.Tail(c.count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transaction log: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.JournalMarkdown(lines))
	return subcommands.ExitSuccess
}

// --- Import Command ---

type importCmd struct {
	kind  string
	file  string
	actor string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a legacy bot data dump" }
func (*importCmd) Usage() string {
	return `khal import -k <economy|stocks|xp> -f <file> [-as <operator>]

  Imports a data dump from the original bot (economy.json, stocks.json or
  xpData.json) into the record collections. Importing merges with existing
  records instead of replacing them.
`
}
func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "Kind of dump: economy, stocks or xp")
	f.StringVar(&c.file, "f", "", "Path to the legacy dump file")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening dump: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	var count int
	switch c.kind {
	case "economy":
		ledger, err := openLedger()
		if err == nil {
			count, err = khalon.ImportEconomy(in, ledger)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case "stocks":
		market, _, err := openMarket()
		if err == nil {
			count, err = khalon.ImportStocks(in, market)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case "xp":
		levels, _, err := openLevels()
		if err == nil {
			count, err = khalon.ImportXP(in, levels)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}

	fmt.Printf("Imported %d %s records from %s\n", count, c.kind, c.file)
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct {
	file string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the accounts in the legacy format" }
func (*exportCmd) Usage() string {
	return `khal export [-f <file>]

  Writes the ledger accounts in the legacy economy.json format, to the
  given file or to stdout. The export is a valid import.
`
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Destination file, stdout when empty")
}
func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	out := os.Stdout
	if c.file != "" {
		out, err = os.Create(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}
	if err := khalon.ExportEconomy(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

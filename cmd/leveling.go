package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khalonbot/khalon/renderer"
)

// --- Rank Command ---

type rankCmd struct {
	account string
}

func (*rankCmd) Name() string     { return "rank" }
func (*rankCmd) Synopsis() string { return "display the level of an account" }
func (*rankCmd) Usage() string {
	return `khal rank -a <account>

  Displays the experience points and level of an account.
`
}
func (c *rankCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to display")
}
func (c *rankCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	levels, cfg, err := openLevels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening levels: %v\n", err)
		return subcommands.ExitFailure
	}
	rec, _ := levels.Rank(c.account)
	printMarkdown(renderer.RankMarkdown(c.account, rec, cfg.Leveling))
	return subcommands.ExitSuccess
}

// --- Award Command ---

type awardCmd struct {
	account string
	points  int64
	actor   string
}

func (*awardCmd) Name() string     { return "award" }
func (*awardCmd) Synopsis() string { return "grant experience points to an account" }
func (*awardCmd) Usage() string {
	return `khal award -a <account> -n <points> [-as <operator>]

  Grants experience points and reports any level gained. Restricted to
  operators when an operator list is configured.
`
}
func (c *awardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to reward")
	f.Int64Var(&c.points, "n", 0, "Experience points to grant")
	f.StringVar(&c.actor, "as", "", "Operator running the command")
}
func (c *awardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status, ok := checkOperator(c.actor); !ok {
		return status
	}
	levels, _, err := openLevels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening levels: %v\n", err)
		return subcommands.ExitFailure
	}
	rec, leveled, err := levels.AwardXP(c.account, c.points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if leveled {
		fmt.Printf("%s reached level %d (%d xp)\n", c.account, rec.Level, rec.XP)
	} else {
		fmt.Printf("%s has %d xp at level %d\n", c.account, rec.XP, rec.Level)
	}
	return subcommands.ExitSuccess
}

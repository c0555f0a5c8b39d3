package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"fundtracker/internal/openai"
	"fundtracker/internal/report"
)

type reviewCmd struct{ app *App }

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "ask the language model to comment on the fund" }
func (*reviewCmd) Usage() string {
	return `fundtracker review

  Sends the summary and metrics tables to OpenAI and prints the reply.
  Needs OPENAI_API_KEY.
`
}

func (*reviewCmd) SetFlags(*flag.FlagSet) {}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reviewer := c.app.reviewer
	if reviewer == nil {
		if c.app.cfg.OpenAIKey == "" {
			return usageError("OPENAI_API_KEY is not set")
		}
		reviewer = openai.NewReviewer(c.app.cfg.OpenAIKey, c.app.cfg.OpenAIModel)
	}
	fd, err := c.app.openFund(ctx)
	if err != nil {
		return fail(err)
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	out, err := report.NewService(fd, reviewer).Review(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.app.out, out)
	return subcommands.ExitSuccess
}

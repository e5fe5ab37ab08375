package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

func cmdRun() *cli.Command {
	var (
		eventFile   string
		pipelineCfg pipelineConfig
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "event",
			Aliases:     []string{"e"},
			Usage:       "Event envelope file ({type, signature, data}); '-' reads stdin",
			Required:    true,
			Destination: &eventFile,
		},
	}, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the pipeline once for an event envelope",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			raw, err := readEventFile(eventFile)
			if err != nil {
				return err
			}

			env, err := model.ParseEnvelope(raw)
			if err != nil {
				return err
			}

			processor, _, err := pipelineCfg.setup(ctx)
			if err != nil {
				return err
			}

			outcome := processor.ProcessEvent(ctx, env.InboundEvent(uuid.NewString()))
			if err := printOutcome(os.Stdout, outcome); err != nil {
				return err
			}

			if !outcome.Succeeded() {
				return goerr.New("pipeline failed",
					goerr.V("kind", outcome.Kind),
					goerr.V("message", outcome.Message),
				)
			}
			return nil
		},
	}
}

func readEventFile(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read event from stdin")
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read event file", goerr.V("path", path))
	}
	return raw, nil
}

// printOutcome writes a colored one-line summary followed by the outcome JSON
func printOutcome(w io.Writer, outcome *model.Outcome) error {
	switch {
	case outcome.Succeeded():
		r := outcome.Result
		color.New(color.FgGreen, color.Bold).Fprintf(w, "✔ %s %s published", r.Repo, r.Tag)
		fmt.Fprintf(w, " (%d uploaded, %d failed)\n", len(r.Uploaded), len(r.FailedUploads))
	case outcome.Kind == types.ErrTagMalformedEvent.String() || outcome.Kind == types.ErrTagNotAPackage.String():
		color.New(color.FgYellow).Fprintf(w, "- ignored (%s): %s\n", outcome.Kind, outcome.Message)
	default:
		color.New(color.FgRed, color.Bold).Fprintf(w, "✘ %s: %s\n", outcome.Kind, outcome.Message)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return goerr.Wrap(err, "failed to encode outcome")
	}
	return nil
}

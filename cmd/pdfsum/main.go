package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kirillkom/pdf-summarizer/internal/bootstrap"
	"github.com/kirillkom/pdf-summarizer/internal/config"
	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
	"github.com/kirillkom/pdf-summarizer/internal/core/prompt"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pdfsum:", err)
		os.Exit(1)
	}
}

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "pdfsum",
		Usage:     "summarize a PDF with an LLM",
		Version:   version,
		ArgsUsage: "FILE.pdf",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "summary language: EN, ID, CN, JP or KR",
				Value:   string(domain.DefaultLanguage),
			},
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"s"},
				Usage:   "summary style: professional or simple",
				Value:   string(domain.DefaultStyle),
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "override LLM_MODEL for this run",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "templates",
				Usage: "list supported styles and languages",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					templates, err := loadTemplates(cfg)
					if err != nil {
						return err
					}
					return printTemplates(cmd.Root().Writer, templates)
				},
			},
		},
		Action: summarize,
	}
}

func summarize(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("expected exactly one PDF file argument")
	}
	path := cmd.Args().First()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Service: "pdfsum", LogOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.WrapError(domain.ErrNoInput, "read file", err)
	}

	summary, err := app.SummarizeUC.Summarize(ctx, ports.SummarizeRequest{
		Document: domain.Document{Filename: filepath.Base(path), Data: data},
		Language: cmd.String("language"),
		Style:    cmd.String("style"),
		Model:    cmd.String("model"),
	})
	if err != nil {
		return describe(err)
	}

	out := cmd.Root().Writer
	if _, err := io.WriteString(out, summary.Text); err != nil {
		return err
	}
	if !strings.HasSuffix(summary.Text, "\n") {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

// loadTemplates returns the store the summarize command resolves against.
func loadTemplates(cfg config.Config) (*prompt.Store, error) {
	if cfg.PromptTemplatesFile == "" {
		return prompt.Builtin(), nil
	}
	templates, err := prompt.LoadFile(cfg.PromptTemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}
	return templates, nil
}

func printTemplates(w io.Writer, catalog ports.TemplateCatalog) error {
	styles := make([]string, 0)
	for _, s := range catalog.Styles() {
		styles = append(styles, string(s))
	}
	languages := make([]string, 0)
	for _, l := range catalog.Languages() {
		languages = append(languages, string(l))
	}
	_, err := fmt.Fprintf(w, "styles:    %s (default %s)\nlanguages: %s (default %s)\n",
		strings.Join(styles, ", "), domain.DefaultStyle,
		strings.Join(languages, ", "), domain.DefaultLanguage)
	return err
}

// describe prefixes pipeline errors with their kind code.
func describe(err error) error {
	if code := domain.KindCode(err); code != "internal" {
		return fmt.Errorf("%s: %w", code, err)
	}
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}

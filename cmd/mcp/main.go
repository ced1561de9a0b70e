package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	mcpadapter "github.com/kirillkom/pdf-summarizer/internal/adapters/mcp"
	"github.com/kirillkom/pdf-summarizer/internal/bootstrap"
	"github.com/kirillkom/pdf-summarizer/internal/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:    "pdfsum-mcp",
		Usage:   "MCP server exposing the PDF summarizer as a tool",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Value:   "stdio",
				Usage:   "transport: stdio or http",
				Sources: cli.EnvVars("MCP_TRANSPORT"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address for the http transport (default MCP_HTTP_ADDR)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode.
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Service: "mcp", LogOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer app.Close()

	tools := mcpadapter.NewTools(app.SummarizeUC, app.Templates, cfg.MaxUploadBytes, app.Logger)
	srv := tools.NewServer(version)

	switch transport := cmd.String("transport"); transport {
	case "stdio":
		app.Logger.Info("mcp_serving", "transport", transport)
		return mcpserver.ServeStdio(srv)
	case "http":
		addr := cmd.String("addr")
		if addr == "" {
			addr = cfg.MCPHTTPAddr
		}
		return serveHTTP(ctx, app, srv, addr)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}
}

func serveHTTP(ctx context.Context, app *bootstrap.App, srv *mcpserver.MCPServer, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(srv, mcpserver.WithEndpointPath("/mcp"))

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("mcp_serving", "transport", "http", "addr", addr)
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

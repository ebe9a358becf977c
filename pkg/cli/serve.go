package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/brieflab/briefd/pkg/cli/config"
	httpctrl "github.com/brieflab/briefd/pkg/controller/http"
	"github.com/brieflab/briefd/pkg/service/briefgen"
	"github.com/brieflab/briefd/pkg/service/worker"
	"github.com/brieflab/briefd/pkg/usecase"
	"github.com/brieflab/briefd/pkg/utils/logging"
	"github.com/brieflab/briefd/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var corsOrigin string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var policyCfg config.Policy
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIEFD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "cors-origin",
			Usage:       "Allowed CORS origin for the web client",
			Value:       "*",
			Sources:     cli.EnvVars("BRIEFD_CORS_ORIGIN"),
			Destination: &corsOrigin,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryClose, err := sentryCfg.Configure(c.Root().Version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryClose()

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			repo, err := repoCfg.Configure(ctx, policy.DedupScanWindow)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// A missing Gemini project must not crash the server; brief
			// creation degrades to 503 until the operator configures it.
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			ucOpts := []usecase.Option{
				usecase.WithPolicy(policy),
			}
			if llmClient != nil {
				generator, err := briefgen.New(llmClient, briefgen.WithRetries(policy.UpstreamRetries))
				if err != nil {
					return goerr.Wrap(err, "failed to initialize brief generator")
				}
				ucOpts = append(ucOpts, usecase.WithGenerator(generator))
				logging.Default().Info("Brief generation enabled")
			} else {
				logging.Default().Warn("Gemini project not configured, brief creation will return 503")
			}

			uc := usecase.New(repo, ucOpts...)

			var retentionWorker *worker.RetentionWorker
			if policy.RetentionDays > 0 {
				retention := time.Duration(policy.RetentionDays) * 24 * time.Hour
				retentionWorker = worker.NewRetentionWorker(repo, retention, time.Hour)
				if err := retentionWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start retention worker")
				}
			}

			httpHandler := httpctrl.New(uc,
				httpctrl.WithCORSOrigin(corsOrigin),
				httpctrl.WithBackendName(repoCfg.Backend()),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if retentionWorker != nil {
					retentionWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

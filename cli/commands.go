package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wtldr/api"
	"wtldr/config"
	"wtldr/mcp"
	"wtldr/storage"
	"wtldr/ui"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load messages from a YAML or JSON file into the message log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}

			messages, err := storage.LoadImportFile(args[0])
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Insert(cmd.Context(), messages...)
			if err != nil {
				return err
			}

			log.Debug().Str("file", args[0]).Int("read", len(messages)).Int("inserted", n).Msg("import finished")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d messages\n", n, len(messages))
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}

			pipeline, store, err := a.pipeline("")
			if err != nil {
				return err
			}
			defer store.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(api.NewHandler(pipeline, store)),
				ReadHeaderTimeout: 15 * time.Second,
				// Generation can take a while
				WriteTimeout: 3 * time.Minute,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("HTTP server starting")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("HTTP server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Info().Msg("server exited")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [http].addr)")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tldr tool over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs must stay on stderr
			if err := a.load(os.Stderr); err != nil {
				return err
			}

			pipeline, store, err := a.pipeline("")
			if err != nil {
				return err
			}
			defer store.Close()

			s, err := mcp.NewServer("wtldr", a.version, mcp.NewHandler(pipeline))
			if err != nil {
				return err
			}
			return mcp.ServeStdio(s)
		},
	}
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured provider is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}

			p, err := a.provider("")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			start := time.Now()
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("%s is not reachable: %w", a.cfg.Provider, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatPairs(
				"provider", a.cfg.Provider,
				"model", p.GetDisplayName(),
				"latency", time.Since(start).Round(time.Millisecond).String(),
			))
			return nil
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented config template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.GetConfigFilePath()
			}
			if err := config.CreateDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func newCredentialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored provider API keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> <api-key>",
		Short: "Store an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editCredentials(func(store *config.CredentialStore) {
				store.Set(args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editCredentials(func(store *config.CredentialStore) {
				store.Delete(args[0])
			})
		},
	})

	return cmd
}

// editCredentials loads the credential store configured in [security], applies
// edit and saves it back.
func (a *app) editCredentials(edit func(*config.CredentialStore)) error {
	cfg, err := config.Read(a.configPath)
	if err != nil {
		return err
	}

	store := cfg.CredentialStore()
	if err := store.Load(cfg.DataDirectory); err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	edit(store)
	if err := store.Save(cfg.DataDirectory); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	log.Debug().Str("method", string(store.Method())).Msg("credentials saved")
	return nil
}

// Package cli is the wtldr command line: the summarize command plus the commands
// that run the HTTP and MCP hosts and manage configuration.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wtldr/config"
	"wtldr/model"
	"wtldr/provider"
	"wtldr/storage"
	"wtldr/tldr"
)

// ProviderFactory builds the generation backend from resolved settings.
type ProviderFactory func(provider.Config) (model.Provider, error)

// app holds the state shared by every command of one process.
type app struct {
	version     string
	configPath  string
	debug       bool
	newProvider ProviderFactory

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd constructs the root command.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&app{version: version, newProvider: provider.NewProvider})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wtldr",
		Short:         "Summarize what each participant said in a chat group",
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default ~/.config/wtldr/config.toml)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")

	root.AddCommand(newSummarizeCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newMCPCmd(a))
	root.AddCommand(newPingCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCredentialsCmd(a))

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// load reads and validates the configuration and sets up logging on errOut.
func (a *app) load(errOut io.Writer) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if a.debug {
		level = "debug"
	}
	a.logger = config.InitLogger(level, cfg.Log.Format, errOut)
	a.cfg = cfg

	log.Debug().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("store", cfg.Store.Driver).
		Msg("configuration loaded")
	return nil
}

func (a *app) options() tldr.Options {
	return tldr.Options{
		DefaultCount:  a.cfg.DefaultCount,
		MaxCount:      a.cfg.MaxCount,
		Prompt:        a.cfg.Prompt,
		EnabledGuilds: a.cfg.EnabledGuilds,
	}
}

// provider builds the configured backend. A non-empty modelOverride replaces the
// configured model for this process only.
func (a *app) provider(modelOverride string) (model.Provider, error) {
	modelName := a.cfg.Model
	if modelOverride != "" {
		modelName = modelOverride
	}

	p, err := a.newProvider(provider.Config{
		Type:    provider.MapProviderIDToType(a.cfg.Provider),
		BaseURL: a.cfg.API,
		Model:   modelName,
		APIKey:  a.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return p, nil
}

func (a *app) openStore() (*storage.MessageStore, error) {
	store, err := storage.Open(a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}
	return store, nil
}

// pipeline opens the store and builds the pipeline on top of it. The caller closes
// the store.
func (a *app) pipeline(modelOverride string) (*tldr.Pipeline, *storage.MessageStore, error) {
	p, err := a.provider(modelOverride)
	if err != nil {
		return nil, nil, err
	}

	store, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := tldr.New(a.options(), store, p, a.logger,
		tldr.WithUserResolver(senderResolver{senders: store}))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return pipeline, store, nil
}

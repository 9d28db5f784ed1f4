// Package cli implements the learnconnect command line client.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/edumentor/learnconnect/pkg/authstate"
	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

// Version should be set at build time via ldflags.
var Version = "v0.1.0"

// App carries the assembled client stack shared by all subcommands.
type App struct {
	cfg     *Config
	cfgPath string

	client  *learnsdk.Client
	machine *authstate.Machine

	out io.Writer
}

// NewRootCmd builds the command tree. Dependencies are assembled in the
// persistent pre-run so flag and config resolution happens exactly once.
func NewRootCmd() *cobra.Command {
	app := &App{out: os.Stdout}

	var (
		serverFlag string
		configFlag string
	)

	root := &cobra.Command{
		Use:           "learnconnect",
		Short:         "LearnConnect tutoring marketplace client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(serverFlag, configFlag)
		},
	}

	root.PersistentFlags().StringVar(&serverFlag, "server", "", "API server URL (overrides config)")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")

	root.AddCommand(
		app.registerCmd(),
		app.loginCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.profileCmd(),
		app.tutorsCmd(),
		app.skillsCmd(),
		app.sessionsCmd(),
		app.analyticsCmd(),
		app.watchCmd(),
		app.configCmd(&serverFlag),
		versionCmd(),
	)

	return root
}

// init resolves configuration and wires the SDK client to the auth machine.
func (a *App) init(serverFlag, configFlag string) error {
	cfgPath := configFlag
	if cfgPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgPath = cfgPath

	server := cfg.Server
	if env := os.Getenv("LC_SERVER"); env != "" {
		server = env
	}
	if serverFlag != "" {
		server = serverFlag
	}

	credPath, err := DefaultCredentialsPath()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	a.client = learnsdk.NewClient(server)
	a.client.Logger = logger
	a.machine = authstate.New(a.client, tokenstore.NewFileStore(credPath), logger)

	// The machine supplies tokens and the one-shot mid-session refresh.
	a.client.Tokens = a.machine
	a.client.Refresher = a.machine
	a.client.RetryUnauthorized = true

	return nil
}

// requireSession restores the persisted session before an authenticated
// command runs.
func (a *App) requireSession(cmd *cobra.Command) error {
	if err := a.machine.Bootstrap(cmd.Context()); err != nil {
		return err
	}
	if !a.machine.State().Authenticated() {
		return fmt.Errorf("not logged in; run 'learnconnect login' first")
	}
	return nil
}

func (a *App) configCmd(serverFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "config file: %s\nserver: %s\n", a.cfgPath, a.cfg.Server)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-server URL",
		Short: "Persist the API server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Server = args[0]
			if err := a.cfg.Save(a.cfgPath); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "server set to %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("learnconnect %s\n", Version)
		},
	}
}

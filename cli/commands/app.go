package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/petal-labs/meili"
	"github.com/petal-labs/meili/cli/config"
	"github.com/petal-labs/meili/cli/keystore"
)

// EnvReader reads MEILI_* environment overrides.
type EnvReader func() (config.Env, error)

// ClientFactory creates an API client from resolved settings.
type ClientFactory func(r config.Resolved, logger hclog.Logger) (*meili.Client, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	fs           afero.Fs
	readEnv      EnvReader
	createClient ClientFactory
	newKeystore  KeystoreFactory
	now          func() time.Time
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer

	cfgFile    string
	profile    string
	host       string
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	env    config.Env
	logger hclog.Logger
}

// WithFS sets the filesystem used for config, request bodies and init.
func WithFS(fs afero.Fs) AppOption {
	return func(a *App) {
		if fs != nil {
			a.fs = fs
		}
	}
}

// WithEnvReader injects the environment reader.
func WithEnvReader(r EnvReader) AppOption {
	return func(a *App) {
		if r != nil {
			a.readEnv = r
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.createClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithClock sets the time source for token expirations.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		fs:           afero.NewOsFs(),
		readEnv:      config.ReadEnv,
		createClient: defaultClientFactory,
		newKeystore:  keystore.NewKeystore,
		now:          time.Now,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		logger:       hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "meili",
		Short: "meili - command-line client for Meilisearch",
		Long: `meili is a command-line client for Meilisearch servers.

Use meili to issue tenant tokens, send API requests, wait on tasks and
manage the API keys of your configured profiles.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.meili/config.yaml)")
	root.PersistentFlags().StringVarP(&a.profile, "profile", "p", "", "profile name (default from config or MEILI_PROFILE)")
	root.PersistentFlags().StringVar(&a.host, "host", "", "server URL, overrides the profile and MEILI_HOST")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.newTokenCommand())
	root.AddCommand(a.newRequestCommand())
	root.AddCommand(a.newHealthCommand())
	root.AddCommand(a.newTasksCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteArgs runs the root command with explicit arguments.
func (a *App) ExecuteArgs(args ...string) error {
	a.root.SetArgs(args)
	return a.root.Execute()
}

func (a *App) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.DefaultConfigPath()
}

func (a *App) initConfig() error {
	level := hclog.Warn
	if a.verbose {
		level = hclog.Debug
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "meili",
		Level:  level,
		Output: a.stderr,
	})

	cfg, err := config.Load(a.fs, a.configPath())
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.cfg = cfg

	env, err := a.readEnv()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.env = env

	a.logger.Debug("config loaded", "path", a.configPath(), "profiles", len(cfg.Profiles))
	return nil
}

// resolve applies the profile, environment and --host flag. The API key is
// looked up in the keystore when the environment does not provide one.
func (a *App) resolve() (config.Resolved, error) {
	env := a.env
	if a.host != "" {
		env.Host = a.host
	}
	r, err := a.cfg.Resolve(a.profile, env)
	if err != nil {
		return config.Resolved{}, exitWithCode(ExitValidation, err)
	}

	if r.APIKey == "" && r.APIKeyRef != "" {
		ks, err := a.newKeystore()
		if err != nil {
			return config.Resolved{}, exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
		}
		key, err := ks.Get(r.APIKeyRef)
		if err != nil {
			var notFound *keystore.ErrKeyNotFound
			if errors.As(err, &notFound) {
				return config.Resolved{}, exitWithCode(ExitValidation,
					fmt.Errorf("no API key stored as %q: run 'meili keys set %s' first", r.APIKeyRef, r.APIKeyRef))
			}
			return config.Resolved{}, exitWithCode(ExitValidation, fmt.Errorf("failed to get API key: %w", err))
		}
		r.APIKey = key
	}

	a.logger.Debug("profile resolved", "profile", r.Profile, "host", r.Host, "api_key_ref", r.APIKeyRef)
	return r, nil
}

// client resolves the active profile and builds an API client.
func (a *App) client() (*meili.Client, error) {
	r, err := a.resolve()
	if err != nil {
		return nil, err
	}
	if err := r.CheckHost(); err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}
	c, err := a.createClient(r, a.logger)
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}
	return c, nil
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}

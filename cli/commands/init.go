package commands

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/petal-labs/meili/cli/config"
)

type initFlags struct {
	profile      string
	apiKeyRef    string
	clientAgents []string
	timeout      time.Duration
	makeDefault  bool
	force        bool
}

var profileNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func (a *App) newInitCommand() *cobra.Command {
	var f initFlags
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Add a server profile to the config file",
		Long: `Add a server profile to ~/.meili/config.yaml, creating the file if needed.
The server URL comes from --host. The first profile becomes the default.

Example:
  meili init --name local --host http://localhost:7700 --api-key-ref local-master
  meili keys set local-master`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(f)
		},
	}
	cmd.Flags().StringVar(&f.profile, "name", config.DefaultProfileName, "profile name")
	cmd.Flags().StringVar(&f.apiKeyRef, "api-key-ref", "", "keystore entry holding the API key")
	cmd.Flags().StringSliceVar(&f.clientAgents, "client-agent", nil, "integration identifier added to the User-Agent")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-request timeout")
	cmd.Flags().BoolVar(&f.makeDefault, "default", false, "make this the default profile")
	cmd.Flags().BoolVar(&f.force, "force", false, "overwrite an existing profile")
	return cmd
}

func validateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if !profileNamePattern.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}
	return nil
}

func (a *App) runInit(f initFlags) error {
	if err := validateProfileName(f.profile); err != nil {
		return exitWithCode(ExitValidation, err)
	}
	if a.host == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("--host is required"))
	}
	if _, exists := a.cfg.Profiles[f.profile]; exists && !f.force {
		return exitWithCode(ExitValidation, fmt.Errorf("profile %q already exists: use --force to overwrite", f.profile))
	}

	a.cfg.Profiles[f.profile] = config.Profile{
		Host:         a.host,
		APIKeyRef:    f.apiKeyRef,
		ClientAgents: f.clientAgents,
		Timeout:      f.timeout,
	}
	if f.makeDefault || a.cfg.DefaultProfile == "" {
		a.cfg.DefaultProfile = f.profile
	}

	path := a.configPath()
	if err := config.Save(a.fs, path, a.cfg); err != nil {
		delete(a.cfg.Profiles, f.profile)
		return exitWithCode(ExitValidation, err)
	}

	fmt.Fprintf(a.stdout, "Profile %s written to %s\n", f.profile, path)
	if f.apiKeyRef != "" {
		fmt.Fprintln(a.stdout, "\nNext steps:")
		fmt.Fprintf(a.stdout, "  meili keys set %s\n", f.apiKeyRef)
		fmt.Fprintf(a.stdout, "  meili health --profile %s\n", f.profile)
	}
	return nil
}

package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/petal-labs/meili/core"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags "-X github.com/petal-labs/meili/cli/commands.Version=v1.0.0"
var (
	// Version is the semantic version of the CLI.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

func (a *App) newVersionCommand() *cobra.Command {
	var server bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version, commit, build date, and Go runtime.
With --server, also print the version of the configured server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]string{
				"version":   Version,
				"commit":    Commit,
				"buildDate": BuildDate,
				"library":   core.DefaultClientInfo.Qualified(),
				"goVersion": runtime.Version(),
				"platform":  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if server {
				c, err := a.client()
				if err != nil {
					return err
				}
				v, err := c.System.Version(cmd.Context())
				if err != nil {
					return apiFailure(err)
				}
				out["server"] = v.PkgVersion
			}

			if a.jsonOutput {
				return a.printJSON(out)
			}

			fmt.Fprintf(a.stdout, "meili %s\n", Version)
			fmt.Fprintf(a.stdout, "  commit:     %s\n", Commit)
			fmt.Fprintf(a.stdout, "  built:      %s\n", BuildDate)
			fmt.Fprintf(a.stdout, "  library:    %s\n", out["library"])
			fmt.Fprintf(a.stdout, "  go version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			if server {
				fmt.Fprintf(a.stdout, "  server:     %s\n", out["server"])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&server, "server", false, "also query the server version")
	return cmd
}

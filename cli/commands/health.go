package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			h, err := c.System.Health(cmd.Context())
			if err != nil {
				return apiFailure(err)
			}

			if a.jsonOutput {
				if err := a.printJSON(h); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(a.stdout, h.Status)
			}
			if h.Status != "available" {
				return exitWithCode(ExitAPI, errors.New("server is not available"))
			}
			return nil
		},
	}
}

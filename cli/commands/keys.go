package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/meili/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored API keys",
		Long: `Manage the API keys profiles refer to through api_key_ref.
Keys are stored encrypted in ~/.meili/keys.enc.`,
	}

	keysCmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Store an API key",
		Long:  `Store an API key under name. The key is prompted without echo.`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysSet,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		Long:  `List stored key names. Key values are never shown.`,
		Args:  cobra.NoArgs,
		RunE:  a.runKeysList,
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysDelete,
	})

	return keysCmd
}

func (a *App) runKeysSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	fmt.Fprintf(a.stdout, "Enter API key for %s: ", name)

	var apiKey string
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		keyBytes, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return exitWithCode(ExitValidation, fmt.Errorf("failed to read key: %w", err))
		}
		apiKey = string(keyBytes)
		fmt.Fprintln(a.stdout)
	} else {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && line == "" {
			return exitWithCode(ExitValidation, fmt.Errorf("failed to read key: %w", err))
		}
		apiKey = strings.TrimSpace(line)
	}

	if apiKey == "" {
		return exitWithCode(ExitValidation, errors.New("API key cannot be empty"))
	}

	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}
	if err := ks.Set(name, apiKey); err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to store key: %w", err))
	}

	fmt.Fprintf(a.stdout, "API key %s stored.\n", name)
	return nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	names, err := ks.List()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to list keys: %w", err))
	}

	if a.jsonOutput {
		return a.printJSON(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No API keys stored.")
		return nil
	}

	fmt.Fprintln(a.stdout, "Stored keys:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %s\n", name)
	}
	return nil
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	if err := ks.Delete(name); err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return exitWithCode(ExitValidation, fmt.Errorf("no key stored as %s", name))
		}
		return exitWithCode(ExitValidation, fmt.Errorf("failed to delete key: %w", err))
	}

	fmt.Fprintf(a.stdout, "API key %s deleted.\n", name)
	return nil
}

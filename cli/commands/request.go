package commands

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/petal-labs/meili/core"
)

func (a *App) newRequestCommand() *cobra.Command {
	var (
		data        string
		params      []string
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send a raw API request",
		Long: `Send a request to any route and print the JSON response.

--data takes a literal body, @file to read a file, or - for stdin.

Examples:
  meili request GET /indexes --param limit=5
  meili request POST /indexes/movies/search --data '{"q":"botman"}'
  meili request POST /indexes/movies/documents --data @movies.ndjson --content-type application/x-ndjson`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRequest(cmd, args[0], args[1], data, params, contentType)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body, @file or - for stdin")
	cmd.Flags().StringArrayVar(&params, "param", nil, "query parameter as key=value (repeatable, order kept)")
	cmd.Flags().StringVar(&contentType, "content-type", "application/json", "content type of the body")
	return cmd
}

func (a *App) runRequest(cmd *cobra.Command, method, path, data string, params []string, contentType string) error {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return exitWithCode(ExitValidation, fmt.Errorf("unsupported method %q", method))
	}

	var query core.Query
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return exitWithCode(ExitValidation, fmt.Errorf("invalid --param %q: want key=value", p))
		}
		query = query.Set(k, v)
	}

	body := core.NoBody()
	if cmd.Flags().Changed("data") {
		payload, err := a.readData(data)
		if err != nil {
			return exitWithCode(ExitValidation, err)
		}
		if len(payload) == 0 {
			body = core.EmptyBody()
		} else {
			body = core.RawBody(payload, contentType)
		}
	}

	c, err := a.client()
	if err != nil {
		return err
	}

	res, err := c.Executor().Request(cmd.Context(), core.RequestSpec{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		return apiFailure(err)
	}
	if res == nil {
		return nil
	}
	return a.printJSON(res)
}

func (a *App) readData(data string) ([]byte, error) {
	switch {
	case data == "-":
		return io.ReadAll(a.stdin)
	case strings.HasPrefix(data, "@"):
		b, err := afero.ReadFile(a.fs, data[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return b, nil
	default:
		return []byte(data), nil
	}
}

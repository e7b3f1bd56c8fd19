package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petal-labs/meili"
	"github.com/petal-labs/meili/core"
)

func TestAPIFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"transport", &core.TransportError{Method: "GET", URL: "/health", Err: context.DeadlineExceeded}, ExitNetwork},
		{"api", &core.APIError{Status: 404, Code: "index_not_found"}, ExitAPI},
		{"invalid body", &core.InvalidResponseBodyError{Status: 200, ContentType: "text/html"}, ExitAPI},
		{"decode", &core.DecodingError{Err: errors.New("bad")}, ExitAPI},
		{"task timeout", fmt.Errorf("%w 5", meili.ErrTaskTimeout), ExitAPI},
		{"other", errors.New("boom"), ExitValidation},
		{"already classified", exitWithCode(ExitNetwork, errors.New("x")), ExitNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(t, apiFailure(tt.err)))
		})
	}
}

package tenant

import (
	"errors"
	"fmt"
	"time"
)

// Argument errors. All are raised before anything is signed.
var (
	ErrNoAPIKey           = errors.New("no API key provided")
	ErrEmptySearchRules   = errors.New("search rules must not be empty")
	ErrInvalidSearchRules = errors.New(`search rules must be "*", a list of index names or a map of index rules`)
	ErrExpired            = errors.New("expiration must be in the future")
	ErrEmptySecret        = errors.New("signing secret must not be empty")
)

// InvalidArgumentError reports a missing or malformed Generate argument.
type InvalidArgumentError struct {
	Argument string
	Err      error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("tenant token: invalid %s: %v", e.Argument, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

// ExpirationError reports an expiration that is not strictly in the future.
type ExpirationError struct {
	ExpiresAt time.Time
	Now       time.Time
}

func (e *ExpirationError) Error() string {
	return fmt.Sprintf("tenant token: expiration %s is not after %s",
		e.ExpiresAt.UTC().Format(time.RFC3339), e.Now.UTC().Format(time.RFC3339))
}

func (e *ExpirationError) Is(target error) bool { return target == ErrExpired }

package gold

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork     = errors.New("network error")
	ErrStatus      = errors.New("unexpected status")
	ErrQuota       = errors.New("quota exceeded")
	ErrSchema      = errors.New("malformed response")
	ErrNoProviders = errors.New("no price providers configured")
)

// ProviderError carries the provider name and one of the Err* kinds above.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newProviderError(provider string, kind error, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

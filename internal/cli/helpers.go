package cli

import (
	"errors"

	"github.com/aretw0/inkwell/pkg/domain"
)

// Exit codes of the inkwell command.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
)

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.KindConfiguration):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}

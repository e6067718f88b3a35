package config

import (
	"errors"
	"fmt"
	"os"

	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitErr writes err to stderr and exits with the code its domain error
// code maps to. Domain errors print their user-facing message.
func ExitErr(err error) {
	if err == nil {
		return
	}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domainErr.LocalizedMessage(os.Getenv("LANG")))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(apperrors.ExitCode(err))
}

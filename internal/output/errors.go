package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/tabhan/oro-product-manager/internal/config"
	"github.com/tabhan/oro-product-manager/internal/oro"
)

// Exit code constants, one per failure kind
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitLookupError  = 5
	ExitAmbiguousSKU = 6
	ExitUpsertError  = 7
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// FromError maps an error from the upsert pipeline to a structured CLIError
// with the exit code for its failure kind.
func FromError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return &CLIError{
			Summary:    "invalid configuration",
			Detail:     cfgErr.Error(),
			Suggestion: "set ORO_BASE_URL, ORO_CLIENT_ID, ORO_CLIENT_SECRET and ORO_ADMIN_PATH, or provide them in config.yaml (see --config)",
			ExitCode:   ExitConfigError,
		}
	}

	var authErr *oro.AuthError
	if errors.As(err, &authErr) {
		return &CLIError{
			Summary:    "authentication failed",
			Detail:     authErr.Error(),
			Suggestion: "verify client_id and client_secret match an active OAuth application on the Oro instance",
			ExitCode:   ExitAuthError,
		}
	}

	var ambErr *oro.AmbiguousSKUError
	if errors.As(err, &ambErr) {
		return &CLIError{
			Summary:    "ambiguous sku",
			Detail:     ambErr.Error(),
			Suggestion: "the remote catalog holds duplicate records for this sku; resolve the duplicates before retrying",
			ExitCode:   ExitAmbiguousSKU,
		}
	}

	var lookupErr *oro.LookupError
	if errors.As(err, &lookupErr) {
		return &CLIError{
			Summary:  "product lookup failed",
			Detail:   lookupErr.Error(),
			ExitCode: ExitLookupError,
		}
	}

	var upsertErr *oro.UpsertError
	if errors.As(err, &upsertErr) {
		e := &CLIError{
			Summary:  fmt.Sprintf("product %s failed", upsertErr.Op),
			Detail:   upsertErr.Error(),
			ExitCode: ExitUpsertError,
		}
		if upsertErr.Body != "" {
			e.Detail = fmt.Sprintf("HTTP %d: %s", upsertErr.Status, upsertErr.Body)
		}
		return e
	}

	return &CLIError{
		Summary:  err.Error(),
		ExitCode: ExitGeneral,
	}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/slotbook/internal/config"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/discovery"
	"github.com/julianstephens/slotbook/internal/keyring"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/storage"
	"github.com/julianstephens/slotbook/internal/submit"
)

// hints map sentinel errors to the next thing the user should try.
var hints = []struct {
	target error
	hint   string
}{
	{config.ErrInvalidConfig, "fix the config file or run `slotbook doctor`"},
	{storage.ErrNotInitialized, "run `slotbook doctor` to check the database"},
	{storage.ErrEmbeddedCredentials, "store the password with `slotbook keyring set` instead"},
	{storage.ErrInvalidConnectionString, "run `slotbook keyring status` to see which connection string is used"},
	{keyring.ErrKeyringUnavailable, "set " + constants.DBConnectionEnv + " instead of using the keyring"},
	{discovery.ErrServerNotRunning, "start a save endpoint with `slotbook serve`"},
	{submit.ErrNoEndpoint, "set `endpoint` in the config or start `slotbook serve`"},
}

// Hint returns a suggestion for a known error, or "" when there is none.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix,
// followed by a hint line when one is known.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

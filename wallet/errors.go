package wallet

import (
	"errors"
	"fmt"
)

// PassphraseError is an error when an operation that requires a
// passphrase is attempted on a wallet with an empty one.
type PassphraseError struct {
	Name string
}

func (e *PassphraseError) Error() string {
	return fmt.Sprintf("wallet %q: passphrase is empty", e.Name)
}

// IsPassphraseError checks if error is PassphraseError
func IsPassphraseError(err error) bool {
	var pe *PassphraseError
	return errors.As(err, &pe)
}

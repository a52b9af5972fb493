package identity

import (
	"errors"

	"github.com/ytfree-cli/ytfree/constant"
	"github.com/zalando/go-keyring"
)

const account = "id-token"

// SetToken stores the ID token in the system keyring.
func SetToken(token string) error {
	return keyring.Set(constant.Ytfree, account, token)
}

// GetToken reads the stored ID token. A missing entry is ErrNotLoggedIn.
func GetToken() (string, error) {
	token, err := keyring.Get(constant.Ytfree, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotLoggedIn
	}
	return token, err
}

// DeleteToken forgets the stored ID token. Deleting a missing entry is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.Ytfree, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

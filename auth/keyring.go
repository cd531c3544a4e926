// Package auth persists the upstream API bearer token in the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"

	"github.com/albinchristo04/streameast/constant"
)

const (
	service = constant.StreamEast
	user    = "api-token"
)

// SetToken persists the API bearer token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the API bearer token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the API bearer token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(service, user)
}

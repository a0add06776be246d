package service

import (
	"errors"
	"fmt"

	"github.com/maheshrc27/influence-api/pkg/utils"
)

var ErrNotFound = errors.New("not found")

// CredentialExpiredError means the stored token can no longer be used or
// refreshed. The user has to reconnect the account.
type CredentialExpiredError struct {
	Platform string
	Reason   string
	Err      error
}

func (e *CredentialExpiredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s credential expired: %s: %v", e.Platform, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s credential expired: %s", e.Platform, e.Reason)
}

func (e *CredentialExpiredError) Unwrap() error {
	return e.Err
}

// UpstreamFetchError is a failed or malformed platform API call.
type UpstreamFetchError struct {
	Platform string
	Op       string
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

type ValidationError = utils.ValidationError

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsReconnectRequired reports whether err asks the user to reconnect an account.
func IsReconnectRequired(err error) bool {
	var ce *CredentialExpiredError
	return errors.As(err, &ce)
}

// ParsePlatform validates a platform tag from a request. "all" and "" are
// accepted only when allowAll is set and are returned as "".
func ParsePlatform(platform string, allowAll bool) (string, error) {
	if allowAll && (platform == "" || platform == "all") {
		return "", nil
	}
	for _, p := range supportedPlatforms {
		if p == platform {
			return platform, nil
		}
	}
	return "", newValidationError("platform", fmt.Sprintf("unknown platform %q", platform))
}

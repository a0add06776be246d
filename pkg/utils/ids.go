package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// NewID returns a 21 character URL-safe random identifier.
func NewID() (string, error) {
	return gonanoid.New()
}

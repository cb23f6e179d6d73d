package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	defaultSlugLength  = 7
	defaultMaxAttempts = 10
)

// reservedSlugs collide with fixed routes and are never issued.
var reservedSlugs = map[string]struct{}{
	"shorten": {},
	"ping":    {},
}

// SlugGenerator returns a candidate slug of the given length.
type SlugGenerator func(length int) (string, error)

// GenerateSlug draws length independent, uniformly distributed symbols from the
// 62 character alphanumeric alphabet.
func GenerateSlug(length int) (string, error) {
	return gonanoid.Generate(slugAlphabet, length)
}

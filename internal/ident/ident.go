// Package ident mints the public slugs and private access tokens handed to
// students. Both are nanoid strings drawn from crypto/rand over a URL-safe
// alphabet.
package ident

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	SlugLength        = 10
	AccessTokenLength = 30

	// Alphabet is the default nanoid alphabet
	Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type Generator interface {
	NewSlug() (string, error)
	NewAccessToken() (string, error)
}

type nanoidGenerator struct{}

func NewGenerator() Generator {
	return nanoidGenerator{}
}

func (nanoidGenerator) NewSlug() (string, error) {
	return gonanoid.New(SlugLength)
}

func (nanoidGenerator) NewAccessToken() (string, error) {
	return gonanoid.New(AccessTokenLength)
}

// IsSlug reports whether s could have been produced by a Generator
func IsSlug(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if !isAlphabet(r) {
			return false
		}
	}
	return true
}

func isAlphabet(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

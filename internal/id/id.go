// Package id generates opaque prefixed identifiers for requests and other
// transient objects. Catalog book ids are decimal and come from the store.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PrefixRequest marks HTTP request ids.
const PrefixRequest = "req"

// requestIDSize keeps request ids short enough to read in logs.
const requestIDSize = 16

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "req-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	return generate(prefix, 0)
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewRequestID returns an id for an incoming HTTP request.
func NewRequestID() (string, error) {
	return generate(PrefixRequest, requestIDSize)
}

// generate creates prefix-nanoid with size characters, or the NanoID
// default when size is zero.
func generate(prefix string, size int) (string, error) {
	var (
		id  string
		err error
	)
	if size > 0 {
		id, err = gonanoid.New(size)
	} else {
		id, err = gonanoid.New()
	}
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Package spechash derives stable content identifiers from specification text.
//
// The hash is computed over the normalized form of the text, so formatting
// churn (re-indentation, trailing whitespace, blank-line shuffling) does not
// produce a new identifier while any wording change does.
package spechash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize collapses runs of whitespace (including newlines) to single
// spaces and trims the ends. Case and punctuation are preserved: "Click" and
// "click" are different specs.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Hash returns the hex-encoded SHA-256 of the normalized text. Pure and
// stable across processes.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

package codegen

import (
	"errors"
	"regexp"
)

// ErrNoHeader means the source has no traceability header to compare
// against, typically because it was not generated by compass.
var ErrNoHeader = errors.New("codegen: no spec-hash header in source")

var specHashLine = regexp.MustCompile(`(?m)^// spec-hash: ([0-9a-f]{64})$`)

// EmbeddedSpecHash extracts the spec hash recorded in a generated file.
func EmbeddedSpecHash(src []byte) (string, error) {
	m := specHashLine.FindSubmatch(src)
	if m == nil {
		return "", ErrNoHeader
	}
	return string(m[1]), nil
}

// IsStale reports whether generated source was produced from a different
// specification than the one hashing to specHash. Generation itself never
// calls this; staleness is checked only when explicitly asked for.
func IsStale(src []byte, specHash string) (bool, error) {
	embedded, err := EmbeddedSpecHash(src)
	if err != nil {
		return false, err
	}
	return embedded != specHash, nil
}

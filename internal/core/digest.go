package core

import (
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/opencontainers/go-digest"
)

// ContentDigest returns the sha256 digest of value's RFC 8785 canonical
// JSON, so key order and whitespace never change the result.
func ContentDigest(value any) (digest.Digest, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode content for digest").
			WithCause(err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to canonicalize content").
			WithCause(err)
	}
	return digest.FromBytes(canonical), nil
}

package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainPipelineSpec is the domain prefix for content-addressed spec identity.
// Version suffix enables future algorithm migration.
const DomainPipelineSpec = "flame/pipeline-spec/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes a content-addressed hash of a pipeline definition.
// The hash is stable given the same spec, so a recorded run can be tied
// back to the exact pipeline shape that produced it.
func SpecHash(spec PipelineSpec) (string, error) {
	// json.Marshal of a struct emits fields in declaration order, so the
	// encoding is deterministic.
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPipelineSpec, data), nil
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSpecHash(spec PipelineSpec) string {
	hash, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return hash
}

package content

import (
	"errors"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Pipeline stage names carried in error context and log fields.
const (
	StageSafetyGate = "safety-gate"
	StageEncoding   = "encoding"
)

var (
	// ErrFileTooLarge is wrapped by errors returned when input exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file too large")
	// ErrEncoding is wrapped by errors returned when a forced encoding cannot decode the input.
	ErrEncoding = errors.New("encoding error")
)

func fileTooLarge(size int, limit int64) error {
	return ferrors.SafetyError("file exceeds maximum size").
		WithStage(StageSafetyGate).
		WithContext("size", size).
		WithContext("limit", limit).
		WithCause(ErrFileTooLarge).
		Build()
}

func encodingFailure(name, reason string) error {
	return ferrors.EncodingError(reason).
		WithStage(StageEncoding).
		WithContext("encoding", name).
		WithCause(ErrEncoding).
		Build()
}

package format

import (
	"errors"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// StageDetection names the type detection stage in errors and logs.
const StageDetection = "type-detection"

// ErrUnknownFormat is wrapped when an explicit format override is not registered.
var ErrUnknownFormat = errors.New("unknown format")

func unknownOverride(override string) error {
	return ferrors.FormatError("format override is not registered").
		WithStage(StageDetection).
		WithContext("override", override).
		WithCause(ErrUnknownFormat).
		Build()
}

package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArgument      = errors.New("argument error")
	ErrPathNotFound  = errors.New("path not found")
	ErrDecode        = errors.New("decode error")
	ErrIO            = errors.New("io error")
	ErrAlreadyExists = errors.New("already exists")
)

// Kind names an error class for reporting.
type Kind string

const (
	KindNone          Kind = ""
	KindArgument      Kind = "argument"
	KindPathNotFound  Kind = "path_not_found"
	KindDecode        Kind = "decode"
	KindIO            Kind = "io"
	KindAlreadyExists Kind = "already_exists"
	KindUnknown       Kind = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above; a nil marker defaults to ErrIO.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Argumentf reports a bad or missing command-line input.
func Argumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

// PathNotFoundf reports a source or target directory that cannot be used.
func PathNotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPathNotFound, fmt.Sprintf(format, args...))
}

// KindOf maps err onto the taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrArgument):
		return KindArgument
	case errors.Is(err, ErrPathNotFound):
		return KindPathNotFound
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	default:
		return KindUnknown
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "packaging failure"
	}
	return strings.Join(parts, ": ")
}

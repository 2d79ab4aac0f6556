package packager

import "errors"

// State is a step of the packaging state machine.
type State string

const (
	StateStart            State = "start"
	StateThumbnailCreated State = "thumbnail_created"
	StateArchiveCreated   State = "archive_created"
	StateCombined         State = "combined"
	StateMoved            State = "moved"
	StateFailed           State = "failed"
)

// Stage names used to tag failures.
const (
	stageThumbnail = "thumbnail"
	stageArchive   = "archive"
	stageCombine   = "combine"
	stageMove      = "move"
)

// Error is returned by PackageFile when a step fails. Reached is the last
// state the operation completed before failing.
type Error struct {
	Source  string
	Stage   string
	Reached State
	Err     error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// StageOf returns the stage a packaging error was raised in, or "" when err
// did not come from PackageFile.
func StageOf(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Stage
	}
	return ""
}

// ReachedOf returns the last state completed before err, or StateFailed when
// err carries no packaging state.
func ReachedOf(err error) State {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Reached
	}
	return StateFailed
}

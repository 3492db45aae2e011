package quiz

import "errors"

// Caller-facing failures of a quiz request. Handlers map these to HTTP
// statuses; per-file extraction failures never surface here, only the
// aggregate ErrNoMaterials does.
var (
	ErrUnauthenticated  = errors.New("user not logged in")
	ErrEmptyTopic       = errors.New("topic cannot be empty")
	ErrForbidden        = errors.New("not a member of this class")
	ErrNoMaterials      = errors.New("class materials are empty or unreadable")
	ErrGenerationFailed = errors.New("quiz generation failed")
)

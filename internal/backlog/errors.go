package backlog

import "errors"

// Sentinel errors for the backlog package.
// Use errors.Is to check: errors.Is(err, backlog.ErrEmptyBacklog)
var (
	ErrEmptyBacklog      = errors.New("backlog: empty backlog")
	ErrInvalidAnswerType = errors.New("backlog: answer must be a boolean")
	ErrStateCorrupted    = errors.New("backlog: state corrupted")
	ErrDuplicateItem     = errors.New("backlog: duplicate item id in pool")
)

package chat

import "errors"

var (
	ErrUnknownSkill = errors.New("unknown skill")
	ErrEmptyText    = errors.New("empty text")
)

package room

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomLocked   = errors.New("room is locked")
	ErrRoomFull     = errors.New("room is full")
	ErrNameTaken    = errors.New("name already taken")
	ErrNotHost      = errors.New("only the host can do that")
	ErrUnknownToken = errors.New("unknown player token")
	ErrEmptyMessage = errors.New("message is empty")
)

package services

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotAvailable = errors.New("room is not available")
)

var (
	ErrInvalidRoom    = errors.New("invalid room")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

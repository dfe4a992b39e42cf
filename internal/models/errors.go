package models

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientCredits = errors.New("no generations left")
	ErrRoomNotFound        = errors.New("room not found")
)

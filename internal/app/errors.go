package app

import "errors"

var (
	ErrNoCommand      = errors.New("no command given")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDoctorFailed   = errors.New("doctor found problems")
)

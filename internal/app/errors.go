package app

import "errors"

// ErrQuit signals a user-requested exit from the main loop.
var ErrQuit = errors.New("quit requested")

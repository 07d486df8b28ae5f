package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowNotFound is returned when a flow name is not registered.
var ErrFlowNotFound = errors.New("flow not found")

// ErrBusy is returned when input is submitted while an acquisition is in flight.
var ErrBusy = errors.New("flow is busy")

// ErrFlowComplete is returned when input is submitted after the terminal step.
var ErrFlowComplete = errors.New("flow already complete")

// ErrLocationNotPending is returned when a location resolution is requested
// but no acquisition is in flight.
var ErrLocationNotPending = errors.New("no location acquisition pending")

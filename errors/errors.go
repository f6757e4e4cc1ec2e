package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Control plane.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnknownParticipant = fmt.Errorf("unknown participant id")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Streaming delivery. Neither is a caller-visible failure: a full
	// queue is a counted delivery miss, a dead session triggers a
	// proactive disconnect.
	ErrQueueFull     = fmt.Errorf("outbound queue full")
	ErrSessionClosed = fmt.Errorf("session closed")
)

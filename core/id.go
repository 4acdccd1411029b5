package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for interceptors, sessions and
// asynchronous task handles.
func NewID() string { return uuid.NewString() }

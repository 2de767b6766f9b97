package domain

import "errors"

var (
	// ErrTokenNotFound means no screen identity is bound to the presented token.
	ErrTokenNotFound = errors.New("screen token not found")

	// ErrScreenNotFound means the screen record is absent from the store.
	ErrScreenNotFound = errors.New("screen not found")

	// ErrChannelNotFound means the channel record is absent from the store.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrPartialSync means the durable write succeeded but the dependent
	// group-binding refresh failed. The record and the group index have
	// drifted; callers must treat the operation as failed and surface the
	// condition distinctly from a total failure.
	ErrPartialSync = errors.New("saved but group bindings not synchronized")
)

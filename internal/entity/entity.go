// Package entity implements the Screen and Channel working copies that back
// a single backend command: load, mutate in memory, save, and signal the
// dispatcher. Each entity lives for one command orchestration; the store owns
// the durable record.
//
// Lifecycle operations return a single error value instead of emitting
// loaded/saved/removed/error events: exactly one terminal outcome per
// operation is enforced by the call shape, not by convention.
package entity

// Dispatcher is the slice of the group broadcast dispatcher the entities
// need: point-to-point signalling, group fan-out, and live binding upkeep.
type Dispatcher interface {
	Send(screenID, event string, payload any)
	Broadcast(groupID, event string, payload any)
	UpdateGroups(screenID string, groups []string)
	Disconnect(screenID, reason string)
	Connected(screenID string) bool
}

// Package errors provides structured error handling for session handlers.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionNotFound    Code = "SESSION_NOT_FOUND"
	CodeSessionConflict    Code = "SESSION_VERSION_CONFLICT"
	CodeSessionFinished    Code = "SESSION_FINISHED"
	CodeSessionNotStarted  Code = "SESSION_NOT_STARTED"
	CodeSessionUnavailable Code = "SESSION_STORE_UNAVAILABLE"

	// Intent errors
	CodePlayerNotInGame Code = "PLAYER_NOT_IN_GAME"
	CodeMoveBlocked     Code = "MOVE_BLOCKED"
	CodeShipsPlaced     Code = "SHIPS_ALREADY_PLACED"

	// Collaborator payload errors
	CodeMalformedPayload Code = "MALFORMED_PAYLOAD"
	CodeMalformedShips   Code = "MALFORMED_SHIPS"
	CodeMalformedBoard   Code = "MALFORMED_BOARD"
)

// Disposition tells the event bus what to do with the delivery whose handler
// returned an error.
type Disposition int

const (
	// DispositionAck drops the delivery as successfully handled.
	DispositionAck Disposition = iota
	// DispositionReject drops the delivery as permanently invalid; the bus
	// applies its dead-letter policy instead of redelivering.
	DispositionReject
	// DispositionRequeue redelivers after a backoff; the failure was transient.
	DispositionRequeue
)

// Disposition maps domain codes to bus delivery outcomes.
func (c Code) Disposition() Disposition {
	switch c {
	// Permanently invalid - the payload can never be applied.
	case CodeSessionNotFound,
		CodeSessionFinished,
		CodeSessionNotStarted,
		CodePlayerNotInGame,
		CodeMoveBlocked,
		CodeShipsPlaced,
		CodeMalformedPayload,
		CodeMalformedShips,
		CodeMalformedBoard:
		return DispositionReject

	// Transient - a later redelivery may succeed.
	case CodeSessionConflict,
		CodeSessionUnavailable:
		return DispositionRequeue

	default:
		return DispositionRequeue
	}
}

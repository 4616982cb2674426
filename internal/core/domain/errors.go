package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers match on these with errors.Is to pick a status code.
var (
	ErrValidation           = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConflict             = errors.New("conflict")
	ErrSimulationUnresolved = errors.New("payoff simulation unresolved")
)

// Error carries the failing entity, its id and a human-readable reason
// alongside the error kind.
type Error struct {
	Kind   error
	Entity string
	ID     uint
	Reason string
}

func (e *Error) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.ID != 0 {
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, msg)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s", e.Entity, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation builds an invalid-input error for an entity
func Validation(entity, reason string) error {
	return &Error{Kind: ErrValidation, Entity: entity, Reason: reason}
}

// NotFound builds a not-found error for an entity id
func NotFound(entity string, id uint) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Unauthorized builds an ownership error for an entity id
func Unauthorized(entity string, id uint) error {
	return &Error{Kind: ErrUnauthorized, Entity: entity, ID: id, Reason: "not owned by caller"}
}

// Conflict builds a state-conflict error for an entity id
func Conflict(entity string, id uint, reason string) error {
	return &Error{Kind: ErrConflict, Entity: entity, ID: id, Reason: reason}
}

// SimulationUnresolved builds an error for a payoff simulation that cannot finish
func SimulationUnresolved(reason string) error {
	return &Error{Kind: ErrSimulationUnresolved, Entity: "simulation", Reason: reason}
}

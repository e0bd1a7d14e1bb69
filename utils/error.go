package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorInvalidTransition is returned when a status update is not an allowed
// edge in the entity's transition table.
var ErrorInvalidTransition = errors.New("invalid status transition")

// ErrorTokenExpired and ErrorTokenUsed cover the two ways a check-in
// response token can be dead.
var (
	ErrorTokenExpired = errors.New("response token expired")
	ErrorTokenUsed    = errors.New("response token already used")
)

// ErrorValidation marks a request that is well-formed JSON but violates a
// business rule; handlers map it to 400. ErrorDownstream marks a failure in
// an external collaborator (email, pubsub); handlers map it to 500 with the
// underlying message kept for operator diagnosis.
var (
	ErrorValidation = errors.New("validation failed")
	ErrorDownstream = errors.New("downstream dependency failed")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

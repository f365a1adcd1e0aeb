package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when a sender or recipient cannot be parsed
	ErrInvalidAddress = errors.New("invalid address")

	// ErrMessage is returned when the message itself cannot be composed
	ErrMessage = errors.New("message error")

	// ErrTransport is returned when talking to the SMTP relay fails
	ErrTransport = errors.New("transport error")
)

// AddressError represents a mailbox that failed to parse.
type AddressError struct {
	Field   string
	Address string
	Err     error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid %s address %q: %v", e.Field, e.Address, e.Err)
}

func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// MessageError represents a failure while rendering the message.
type MessageError struct {
	Err error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("unable to compose message: %v", e.Err)
}

func (e *MessageError) Is(target error) bool {
	return target == ErrMessage
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// TransportError represents a failure to reach or talk to the relay.
type TransportError struct {
	Host string
	Port int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send via %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

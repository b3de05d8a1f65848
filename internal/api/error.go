package api

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindServer means the backend responded with a non-2xx status.
	KindServer ErrorKind = iota
	// KindNetwork means the request never reached a server (offline, timeout, DNS).
	KindNetwork
	// KindClient means the failure happened before or after the wire (bad input, undecodable body).
	KindClient
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	default:
		return ""
	}
}

// NetworkErrorMessage is the fixed message surfaced for unreachable-server failures.
const NetworkErrorMessage = "Network error. Please check your connection."

// Error is the uniform failure shape returned by every backend-calling operation.
//
// Status is the HTTP status for server errors and 0 otherwise.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// NetworkError wraps a transport-level failure into the uniform shape.
func NetworkError() *Error {
	return &Error{Kind: KindNetwork, Message: NetworkErrorMessage, Status: 0}
}

// ClientError wraps a local failure into the uniform shape.
func ClientError(err error) *Error {
	msg := "An unexpected error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindClient, Message: msg, Status: 0}
}

// ServerError builds an Error from a non-2xx response, preferring the
// backend's structured detail when present.
func ServerError(status int, body []byte) *Error {
	message := "An error occurred"

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			message = payload.Detail
		} else if payload.Message != "" {
			message = payload.Message
		}
	}

	return &Error{Kind: KindServer, Message: message, Status: status}
}

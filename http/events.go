package http

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	signing "github.com/mark3labs/dydx-signing"
)

// SignEventType distinguishes signing events.
type SignEventType string

const (
	// SignEventSuccess is emitted after headers were attached and the request was sent.
	SignEventSuccess SignEventType = "success"

	// SignEventFailure is emitted when signing or sending failed.
	SignEventFailure SignEventType = "failure"
)

// SignEvent describes one signed request.
type SignEvent struct {
	Type      SignEventType
	Timestamp time.Time
	Method    string
	URL       string
	Address   common.Address
	Signing   signing.SigningMethod
	Error     error
	Duration  time.Duration
}

// SignCallback receives signing events.
type SignCallback func(SignEvent)

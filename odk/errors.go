package odk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Transport failures surfaced by submission fetches, in order of specificity.
// They are reported as sentinel tables rather than returned errors so that
// rendering code has one uniform empty-or-error shape to check.
const (
	msgTimeout    = "Request timed out. The server took too long to respond."
	msgConnection = "Connection error. Could not connect to the server."
)

type failureKind int

const (
	failureTimeout failureKind = iota
	failureConnection
	failureOther
)

// classifyTransport buckets an upstream error into timeout, connection
// failure, or other. HTTP status errors and decode errors land in other.
func classifyTransport(err error) failureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failureTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return failureConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return failureConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return failureConnection
	}
	return failureOther
}

// TransientError reports whether a sentinel table carries a timeout or
// connection failure, the two kinds a caller may reasonably retry.
func (t *Table) TransientError() bool {
	if !t.IsError() {
		return false
	}
	msg := t.ErrorMessage()
	return msg == msgTimeout || msg == msgConnection
}

func transportErrorTable(err error) *Table {
	switch classifyTransport(err) {
	case failureTimeout:
		return errorTable(msgTimeout)
	case failureConnection:
		return errorTable(msgConnection)
	default:
		return errorTable(fmt.Sprintf("Failed to fetch submissions: %v", err))
	}
}

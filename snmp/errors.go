package snmp

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Error taxonomy for one SNMP exchange. Transport errors are retryable by
// policy; authentication failures are not, because retrying with the same
// bad credentials cannot succeed.
var (
	ErrTimeout           = errors.New("snmp: request timed out")
	ErrConnectionRefused = errors.New("snmp: connection refused")
	ErrAuthentication    = errors.New("snmp: authentication failed")
	ErrDecode            = errors.New("snmp: malformed response")
)

// Retryable reports whether a failed exchange may succeed on another
// attempt with the same parameters.
func Retryable(err error) bool {
	return !errors.Is(err, ErrAuthentication) && !errors.Is(err, ErrDecode)
}

// authFailureMarkers match the messages gosnmp produces when a v3 agent
// rejects the USM credentials. The library does not expose typed errors for
// these, so message inspection is the only hook.
var authFailureMarkers = []string{
	"authentication failure",
	"not authentic",
	"unknown username",
	"wrong digest",
	"usmstatswrongdigests",
	"usmstatsunknownusernames",
	"usmstatsdecryptionerrors",
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errWrap(ErrTimeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return errWrap(ErrConnectionRefused, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return errWrap(ErrTimeout, err)
	case strings.Contains(msg, "connection refused"):
		return errWrap(ErrConnectionRefused, err)
	}
	for _, marker := range authFailureMarkers {
		if strings.Contains(msg, marker) {
			return errWrap(ErrAuthentication, err)
		}
	}
	return err
}

type wrapped struct {
	sentinel error
	cause    error
}

func errWrap(sentinel, cause error) error {
	return &wrapped{sentinel: sentinel, cause: cause}
}

func (w *wrapped) Error() string { return w.sentinel.Error() + ": " + w.cause.Error() }

func (w *wrapped) Is(target error) bool { return target == w.sentinel }

func (w *wrapped) Unwrap() error { return w.cause }

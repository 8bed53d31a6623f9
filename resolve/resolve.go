// Package resolve turns a user-supplied target identifier plus optional
// overrides into a fully specified ConnectionSpec. It does no network I/O;
// DNS resolution, if needed, happens when the session dials.
package resolve

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/inkstat/printer-snmp-poller/inventory"
	"github.com/inkstat/printer-snmp-poller/models"
)

// Kind discriminates resolution failures.
type Kind int

const (
	// UnknownAlias: the identifier is neither a plausible host/IP nor a
	// saved inventory alias.
	UnknownAlias Kind = iota
	// IncompleteV3Credentials: the chosen v3 security level demands a
	// credential field that ended up empty.
	IncompleteV3Credentials
	// BadValue: an inventory entry carries an unparseable enum value.
	BadValue
)

// ResolutionError is fatal: it is surfaced immediately and never retried.
type ResolutionError struct {
	Kind   Kind
	Target string
	Detail string
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case UnknownAlias:
		return fmt.Sprintf("%q is not a valid host and no inventory alias matches it", e.Target)
	case IncompleteV3Credentials:
		return fmt.Sprintf("incomplete SNMPv3 credentials for %q: %s", e.Target, e.Detail)
	default:
		return fmt.Sprintf("cannot resolve %q: %s", e.Target, e.Detail)
	}
}

// Options are the explicitly supplied overrides. Nil means "not given":
// the inventory value, then the documented default, applies.
type Options struct {
	Port          *uint16
	Version       *models.Version
	Community     *string
	Username      *string
	SecurityLevel *models.SecurityLevel
	AuthProtocol  *models.AuthProtocol
	AuthPassword  *string
	PrivProtocol  *models.PrivProtocol
	PrivPassword  *string
	ContextName   *string
	Timeout       *time.Duration
}

// Resolve builds the ConnectionSpec for identifier. base is the inventory
// entry the identifier matched, or nil when it is a raw host; explicit
// options always win over stored values, stored values over defaults.
func Resolve(identifier string, base *inventory.Entry, opts Options) (models.ConnectionSpec, error) {
	spec := models.ConnectionSpec{
		Host:          identifier,
		Port:          models.DefaultPort,
		Version:       models.V2c,
		Community:     models.DefaultCommunity,
		SecurityLevel: models.AuthPriv,
		AuthProtocol:  models.AuthSHA1,
		PrivProtocol:  models.PrivAES128,
		Timeout:       models.DefaultTimeout,
	}

	if base != nil {
		if err := applyEntry(&spec, base); err != nil {
			return models.ConnectionSpec{}, err
		}
	} else if !validHost(identifier) {
		return models.ConnectionSpec{}, &ResolutionError{Kind: UnknownAlias, Target: identifier}
	}

	applyOptions(&spec, opts)

	if spec.Version == models.V3 {
		if err := checkV3(identifier, spec); err != nil {
			return models.ConnectionSpec{}, err
		}
	}

	return spec, nil
}

func applyEntry(spec *models.ConnectionSpec, e *inventory.Entry) error {
	spec.Host = e.Host
	if e.Port != nil {
		spec.Port = *e.Port
	}
	if e.Version != nil {
		v, err := models.ParseVersion(*e.Version)
		if err != nil {
			return &ResolutionError{Kind: BadValue, Target: e.Alias, Detail: err.Error()}
		}
		spec.Version = v
	}
	if e.Community != nil {
		spec.Community = *e.Community
	}
	if e.Username != nil {
		spec.Username = *e.Username
	}
	if e.SecurityLevel != nil {
		l, err := models.ParseSecurityLevel(*e.SecurityLevel)
		if err != nil {
			return &ResolutionError{Kind: BadValue, Target: e.Alias, Detail: err.Error()}
		}
		spec.SecurityLevel = l
	}
	if e.AuthProtocol != nil {
		p, err := models.ParseAuthProtocol(*e.AuthProtocol)
		if err != nil {
			return &ResolutionError{Kind: BadValue, Target: e.Alias, Detail: err.Error()}
		}
		spec.AuthProtocol = p
	}
	if e.AuthPassword != nil {
		spec.AuthPassword = *e.AuthPassword
	}
	if e.PrivProtocol != nil {
		p, err := models.ParsePrivProtocol(*e.PrivProtocol)
		if err != nil {
			return &ResolutionError{Kind: BadValue, Target: e.Alias, Detail: err.Error()}
		}
		spec.PrivProtocol = p
	}
	if e.PrivPassword != nil {
		spec.PrivPassword = *e.PrivPassword
	}
	if e.ContextName != nil {
		spec.ContextName = *e.ContextName
	}
	if e.TimeoutSeconds != nil {
		spec.Timeout = time.Duration(*e.TimeoutSeconds) * time.Second
	}
	return nil
}

func applyOptions(spec *models.ConnectionSpec, opts Options) {
	if opts.Port != nil {
		spec.Port = *opts.Port
	}
	if opts.Version != nil {
		spec.Version = *opts.Version
	}
	if opts.Community != nil {
		spec.Community = *opts.Community
	}
	if opts.Username != nil {
		spec.Username = *opts.Username
	}
	if opts.SecurityLevel != nil {
		spec.SecurityLevel = *opts.SecurityLevel
	}
	if opts.AuthProtocol != nil {
		spec.AuthProtocol = *opts.AuthProtocol
	}
	if opts.AuthPassword != nil {
		spec.AuthPassword = *opts.AuthPassword
	}
	if opts.PrivProtocol != nil {
		spec.PrivProtocol = *opts.PrivProtocol
	}
	if opts.PrivPassword != nil {
		spec.PrivPassword = *opts.PrivPassword
	}
	if opts.ContextName != nil {
		spec.ContextName = *opts.ContextName
	}
	if opts.Timeout != nil {
		spec.Timeout = *opts.Timeout
	}
}

func checkV3(target string, spec models.ConnectionSpec) error {
	fail := func(detail string) error {
		return &ResolutionError{Kind: IncompleteV3Credentials, Target: target, Detail: detail}
	}
	if spec.Username == "" {
		return fail("username is required for v3")
	}
	switch spec.SecurityLevel {
	case models.AuthNoPriv:
		if spec.AuthPassword == "" {
			return fail("authNoPriv requires an auth password")
		}
	case models.AuthPriv:
		if spec.AuthPassword == "" {
			return fail("authPriv requires an auth password")
		}
		if spec.PrivPassword == "" {
			return fail("authPriv requires a privacy password")
		}
	}
	return nil
}

// validHost accepts IPs and syntactically plausible DNS names.
func validHost(s string) bool {
	if s == "" || len(s) > 253 {
		return false
	}
	if net.ParseIP(s) != nil {
		return true
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			default:
				return false
			}
		}
	}
	return true
}

package models

import "time"

// Version selects the SNMP protocol variant used to talk to a target.
type Version string

const (
	V1  Version = "v1"
	V2c Version = "v2c"
	V3  Version = "v3"
)

// SecurityLevel is the SNMPv3 USM security level.
type SecurityLevel string

const (
	NoAuthNoPriv SecurityLevel = "noAuthNoPriv"
	AuthNoPriv   SecurityLevel = "authNoPriv"
	AuthPriv     SecurityLevel = "authPriv"
)

// AuthProtocol is the SNMPv3 authentication digest algorithm.
type AuthProtocol string

const (
	AuthMD5    AuthProtocol = "md5"
	AuthSHA1   AuthProtocol = "sha1"
	AuthSHA224 AuthProtocol = "sha224"
	AuthSHA256 AuthProtocol = "sha256"
	AuthSHA384 AuthProtocol = "sha384"
	AuthSHA512 AuthProtocol = "sha512"
)

// PrivProtocol is the SNMPv3 privacy cipher.
type PrivProtocol string

const (
	PrivDES    PrivProtocol = "des"
	PrivAES128 PrivProtocol = "aes128"
	PrivAES192 PrivProtocol = "aes192"
	PrivAES256 PrivProtocol = "aes256"
)

// Defaults applied by the resolver when neither the inventory nor the CLI
// supplies a value.
const (
	DefaultPort      uint16 = 161
	DefaultCommunity        = "public"
	DefaultTimeout          = 5 * time.Second
)

// ConnectionSpec fully describes how to reach one SNMP agent. It is built by
// the resolver and passed by value into the polling engine; the engine never
// mutates it.
type ConnectionSpec struct {
	Host    string  `json:"host"`
	Port    uint16  `json:"port"`
	Version Version `json:"version"`

	// v1/v2c
	Community string `json:"-"`

	// v3 USM
	Username      string        `json:"username,omitempty"`
	SecurityLevel SecurityLevel `json:"security_level,omitempty"`
	AuthProtocol  AuthProtocol  `json:"auth_protocol,omitempty"`
	AuthPassword  string        `json:"-"`
	PrivProtocol  PrivProtocol  `json:"priv_protocol,omitempty"`
	PrivPassword  string        `json:"-"`
	ContextName   string        `json:"context_name,omitempty"`

	Timeout time.Duration `json:"timeout"`
}

// RetryPolicy bounds one poll operation. Retries counts re-attempts after
// the first try, so the worst-case wall clock is Timeout * (Retries + 1).
type RetryPolicy struct {
	Timeout time.Duration
	Retries int
}

// Bound returns the wall-clock deadline for the whole operation.
func (p RetryPolicy) Bound() time.Duration {
	return p.Timeout * time.Duration(p.Retries+1)
}

// Attempts returns the total number of tries the policy allows.
func (p RetryPolicy) Attempts() int {
	return p.Retries + 1
}

// Package snmp wraps gosnmp behind a small version-polymorphic Session: the
// caller opens a session from a ConnectionSpec, issues batched GETs and
// closes it, without ever branching on the protocol version itself.
package snmp

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"
	"github.com/inkstat/printer-snmp-poller/models"
	"go.uber.org/zap"
)

// maxOidsPerRequest caps how many varbinds ride in one GET PDU.
const maxOidsPerRequest = 30

// Session is one open exchange channel to an SNMP agent. Get returns one
// RawValue per requested OID, in request order. A Session owns its socket
// exclusively and must be closed on every exit path.
type Session interface {
	Get(ctx context.Context, oids []string) ([]RawValue, error)
	Close() error
}

// Open dials the target described by spec and returns a live session.
// Version dispatch happens here once: v1 and v2c authenticate with the
// community string, v3 builds USM security parameters and performs engine
// discovery on first use.
func Open(spec models.ConnectionSpec, logger *zap.Logger) (Session, error) {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = models.DefaultTimeout
	}

	g := &gosnmp.GoSNMP{
		Target:                  spec.Host,
		Port:                    spec.Port,
		Timeout:                 timeout,
		Retries:                 0, // the polling engine owns retry policy
		Transport:               "udp",
		UseUnconnectedUDPSocket: true,
		MaxOids:                 maxOidsPerRequest,
	}
	if g.Port == 0 {
		g.Port = models.DefaultPort
	}

	switch spec.Version {
	case models.V1:
		g.Version = gosnmp.Version1
		g.Community = spec.Community
	case models.V2c:
		g.Version = gosnmp.Version2c
		g.Community = spec.Community
	case models.V3:
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		g.ContextName = spec.ContextName
		g.MsgFlags = msgFlags(spec.SecurityLevel)
		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 spec.Username,
			AuthenticationProtocol:   authProto(spec.AuthProtocol),
			AuthenticationPassphrase: spec.AuthPassword,
			PrivacyProtocol:          privProto(spec.PrivProtocol),
			PrivacyPassphrase:        spec.PrivPassword,
		}
	default:
		return nil, fmt.Errorf("snmp: unsupported version %q", spec.Version)
	}

	if err := g.Connect(); err != nil {
		return nil, classify(err)
	}

	return &session{conn: g, logger: logger}, nil
}

type session struct {
	conn   *gosnmp.GoSNMP
	logger *zap.Logger
}

func (s *session) Get(ctx context.Context, oids []string) ([]RawValue, error) {
	if len(oids) == 0 {
		return nil, nil
	}

	results := make([]RawValue, 0, len(oids))
	for start := 0; start < len(oids); start += maxOidsPerRequest {
		end := start + maxOidsPerRequest
		if end > len(oids) {
			end = len(oids)
		}
		chunk := oids[start:end]

		if err := ctx.Err(); err != nil {
			return nil, errWrap(ErrTimeout, err)
		}

		vals, err := s.getBatch(chunk)
		if err != nil {
			if !batchRejected(err) {
				return nil, err
			}
			// Some agents refuse multi-varbind PDUs outright. Degrade to
			// one request per OID before failing the attempt.
			s.logger.Debug("batched get rejected, falling back to per-oid requests",
				zap.String("target", s.conn.Target), zap.Int("batch", len(chunk)))
			vals, err = s.getSingly(ctx, chunk)
			if err != nil {
				return nil, err
			}
		}
		results = append(results, vals...)
	}
	return results, nil
}

func (s *session) getBatch(oids []string) ([]RawValue, error) {
	packet, err := s.conn.Get(oids)
	if err != nil {
		return nil, classify(err)
	}
	if packet.Error == gosnmp.TooBig || packet.Error == gosnmp.GenErr {
		return nil, errWrap(ErrDecode, fmt.Errorf("agent rejected request: %v", packet.Error))
	}
	return decodeResponse(oids, packet)
}

func (s *session) getSingly(ctx context.Context, oids []string) ([]RawValue, error) {
	results := make([]RawValue, 0, len(oids))
	for _, oid := range oids {
		if err := ctx.Err(); err != nil {
			return nil, errWrap(ErrTimeout, err)
		}
		packet, err := s.conn.Get([]string{oid})
		if err != nil {
			return nil, classify(err)
		}
		vals, err := decodeResponse([]string{oid}, packet)
		if err != nil {
			return nil, err
		}
		results = append(results, vals...)
	}
	return results, nil
}

func (s *session) Close() error {
	if s.conn != nil && s.conn.Conn != nil {
		return s.conn.Conn.Close()
	}
	return nil
}

// decodeResponse pairs response varbinds back to the requested OIDs.
func decodeResponse(oids []string, packet *gosnmp.SnmpPacket) ([]RawValue, error) {
	if packet.Error == gosnmp.NoSuchName {
		// v1 flags the whole PDU instead of marking individual varbinds.
		// A multi-OID request cannot tell which object was missing, so it
		// is punted back for per-OID resolution; a single-OID request is
		// exact: that object is absent.
		if len(oids) > 1 {
			return nil, errWrap(ErrDecode, fmt.Errorf("agent rejected request: %v", packet.Error))
		}
		return []RawValue{{Kind: KindAbsent}}, nil
	}

	byOid := make(map[string]RawValue, len(packet.Variables))
	for _, pdu := range packet.Variables {
		val, err := decodePDU(pdu)
		if err != nil {
			return nil, err
		}
		byOid[strings.TrimPrefix(pdu.Name, ".")] = val
	}

	results := make([]RawValue, len(oids))
	for i, oid := range oids {
		val, ok := byOid[strings.TrimPrefix(oid, ".")]
		if !ok {
			val = RawValue{Kind: KindAbsent}
		}
		results[i] = val
	}
	return results, nil
}

// batchRejected spots the agent-side refusals that a per-OID fallback can
// work around, as opposed to transport failures where it cannot.
func batchRejected(err error) bool {
	if Retryable(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "too big") || strings.Contains(msg, "toobig") ||
		strings.Contains(msg, "rejected request") || strings.Contains(msg, "generr")
}

func msgFlags(level models.SecurityLevel) gosnmp.SnmpV3MsgFlags {
	switch level {
	case models.AuthPriv:
		return gosnmp.AuthPriv
	case models.AuthNoPriv:
		return gosnmp.AuthNoPriv
	default:
		return gosnmp.NoAuthNoPriv
	}
}

func authProto(p models.AuthProtocol) gosnmp.SnmpV3AuthProtocol {
	switch p {
	case models.AuthMD5:
		return gosnmp.MD5
	case models.AuthSHA224:
		return gosnmp.SHA224
	case models.AuthSHA256:
		return gosnmp.SHA256
	case models.AuthSHA384:
		return gosnmp.SHA384
	case models.AuthSHA512:
		return gosnmp.SHA512
	default:
		return gosnmp.SHA
	}
}

func privProto(p models.PrivProtocol) gosnmp.SnmpV3PrivProtocol {
	switch p {
	case models.PrivDES:
		return gosnmp.DES
	case models.PrivAES192:
		return gosnmp.AES192
	case models.PrivAES256:
		return gosnmp.AES256
	default:
		return gosnmp.AES
	}
}

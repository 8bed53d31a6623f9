package snmp

import (
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// Kind discriminates the decoded forms a varbind can take.
type Kind int

const (
	// KindAbsent is the agent saying "no such object/instance here". It is
	// data, not an error: the normalizer turns it into an unsupported slot.
	KindAbsent Kind = iota
	KindInt
	KindBytes
)

// RawValue is one decoded varbind. Exactly one of Int or Bytes is
// meaningful, selected by Kind.
type RawValue struct {
	Kind  Kind
	Int   int64
	Bytes []byte
}

// Absent reports whether the agent returned nothing for the OID.
func (v RawValue) Absent() bool { return v.Kind == KindAbsent }

// String renders byte values as text and everything else numerically.
func (v RawValue) String() string {
	switch v.Kind {
	case KindAbsent:
		return "<absent>"
	case KindBytes:
		return string(v.Bytes)
	default:
		return fmt.Sprintf("%d", v.Int)
	}
}

// decodePDU maps a gosnmp varbind onto a RawValue. The explicit
// no-such-object markers and v1's NoSuchName-style nulls all collapse to
// KindAbsent so callers never confuse "missing" with zero.
func decodePDU(pdu gosnmp.SnmpPDU) (RawValue, error) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return RawValue{Kind: KindAbsent}, nil

	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return RawValue{}, errWrap(ErrDecode, fmt.Errorf("octet string for %s is %T", pdu.Name, pdu.Value))
		}
		return RawValue{Kind: KindBytes, Bytes: b}, nil

	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		s, ok := pdu.Value.(string)
		if !ok {
			return RawValue{}, errWrap(ErrDecode, fmt.Errorf("identifier for %s is %T", pdu.Name, pdu.Value))
		}
		return RawValue{Kind: KindBytes, Bytes: []byte(s)}, nil

	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.Uinteger32,
		gosnmp.TimeTicks, gosnmp.Counter64, gosnmp.OpaqueFloat, gosnmp.OpaqueDouble:
		return RawValue{Kind: KindInt, Int: gosnmp.ToBigInt(pdu.Value).Int64()}, nil
	}

	return RawValue{}, errWrap(ErrDecode, fmt.Errorf("unhandled asn type %v for %s", pdu.Type, pdu.Name))
}

package snmp

import (
	"errors"
	"testing"

	"github.com/gosnmp/gosnmp"
)

func TestDecodePDU(t *testing.T) {
	tests := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want RawValue
	}{
		{
			name: "integer",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 42},
			want: RawValue{Kind: KindInt, Int: 42},
		},
		{
			name: "negative sentinel",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: -2},
			want: RawValue{Kind: KindInt, Int: -2},
		},
		{
			name: "gauge",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(5000)},
			want: RawValue{Kind: KindInt, Int: 5000},
		},
		{
			name: "counter64",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1 << 40)},
			want: RawValue{Kind: KindInt, Int: 1 << 40},
		},
		{
			name: "no such object is absent",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.NoSuchObject},
			want: RawValue{Kind: KindAbsent},
		},
		{
			name: "no such instance is absent",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance},
			want: RawValue{Kind: KindAbsent},
		},
		{
			name: "null is absent",
			pdu:  gosnmp.SnmpPDU{Type: gosnmp.Null},
			want: RawValue{Kind: KindAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePDU(tt.pdu)
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind != tt.want.Kind || got.Int != tt.want.Int {
				t.Errorf("decodePDU = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodePDUOctetString(t *testing.T) {
	got, err := decodePDU(gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("X123456")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindBytes || string(got.Bytes) != "X123456" {
		t.Errorf("got %+v", got)
	}
	if got.String() != "X123456" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestDecodePDUBadPayload(t *testing.T) {
	_, err := decodePDU(gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: 7})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestRawValueAbsent(t *testing.T) {
	var v RawValue
	if !v.Absent() {
		t.Error("zero value must read as absent")
	}
	if (RawValue{Kind: KindInt, Int: 0}).Absent() {
		t.Error("an integer zero is a real reading, not absence")
	}
}

package snmp

import (
	"errors"
	"testing"

	"github.com/gosnmp/gosnmp"
)

func respPacket(vars ...gosnmp.SnmpPDU) *gosnmp.SnmpPacket {
	return &gosnmp.SnmpPacket{Variables: vars}
}

func TestDecodeResponsePairsByOid(t *testing.T) {
	oids := []string{"1.3.6.1.2.1.43.11.1.1.9.1.1", "1.3.6.1.2.1.43.11.1.1.8.1.1"}
	// agents answer with a leading dot; order may differ from the request
	packet := respPacket(
		gosnmp.SnmpPDU{Name: ".1.3.6.1.2.1.43.11.1.1.8.1.1", Type: gosnmp.Integer, Value: 80},
		gosnmp.SnmpPDU{Name: ".1.3.6.1.2.1.43.11.1.1.9.1.1", Type: gosnmp.Integer, Value: 40},
	)

	vals, err := decodeResponse(oids, packet)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 {
		t.Fatalf("got %d values", len(vals))
	}
	if vals[0].Int != 40 || vals[1].Int != 80 {
		t.Errorf("values out of request order: %+v", vals)
	}
}

func TestDecodeResponseMissingVarbindIsAbsent(t *testing.T) {
	oids := []string{"1.3.6.1.2.1.43.11.1.1.9.1.1", "1.3.6.1.2.1.43.11.1.1.9.1.99"}
	packet := respPacket(
		gosnmp.SnmpPDU{Name: ".1.3.6.1.2.1.43.11.1.1.9.1.1", Type: gosnmp.Integer, Value: 40},
	)

	vals, err := decodeResponse(oids, packet)
	if err != nil {
		t.Fatal(err)
	}
	if !vals[1].Absent() {
		t.Errorf("missing varbind decoded as %+v", vals[1])
	}
}

func TestDecodeResponseNoSuchName(t *testing.T) {
	single := &gosnmp.SnmpPacket{Error: gosnmp.NoSuchName}
	vals, err := decodeResponse([]string{"1.2.3"}, single)
	if err != nil {
		t.Fatal(err)
	}
	if !vals[0].Absent() {
		t.Errorf("single oid NoSuchName = %+v, want absent", vals[0])
	}

	// a batch cannot tell which varbind was missing, so it must be retried
	// one OID at a time
	_, err = decodeResponse([]string{"1.2.3", "1.2.4"}, single)
	if err == nil {
		t.Fatal("expected error for batched NoSuchName")
	}
	if !batchRejected(err) {
		t.Errorf("error %v should trigger the per-oid fallback", err)
	}
}

func TestBatchRejected(t *testing.T) {
	if batchRejected(errWrap(ErrTimeout, errors.New("i/o timeout"))) {
		t.Error("transport timeouts are not batch rejections")
	}
	if batchRejected(errWrap(ErrAuthentication, errors.New("wrong digest"))) {
		t.Error("auth failures are not batch rejections")
	}
	if !batchRejected(errWrap(ErrDecode, errors.New("agent rejected request: TooBig"))) {
		t.Error("TooBig must degrade to per-oid requests")
	}
}

package supply_test

import (
	"testing"

	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/supply"
)

// blobEntry appends one [code 0x01 0x04 u32] reading. pct is the percentage
// scaled by 100, as the printers report it.
func blobEntry(blob []byte, code byte, pct uint32) []byte {
	blob = append(blob, code, 0x01, 0x04)
	return append(blob, byte(pct>>24), byte(pct>>16), byte(pct>>8), byte(pct))
}

func TestParseBrotherMaintenance(t *testing.T) {
	var blob []byte
	blob = blobEntry(blob, 0x6f, 8200) // toner.black 82%
	blob = blobEntry(blob, 0x41, 9950) // drum.black 99.5%, truncates to 99
	blob = blobEntry(blob, 0x6a, 100)  // fuser 1%

	levels := supply.ParseBrotherMaintenance(blob)

	want := map[string]int64{
		catalog.SlotTonerBlack: 82,
		catalog.SlotDrumBlack:  99,
		catalog.SlotFuser:      1,
	}
	for slot, pct := range want {
		if got, ok := levels[slot]; !ok || got != pct {
			t.Errorf("%s = %d (present=%v), want %d", slot, got, ok, pct)
		}
	}
	if _, ok := levels[catalog.SlotTonerCyan]; ok {
		t.Error("toner.cyan should be missing from a mono blob")
	}
}

func TestParseBrotherMaintenanceTruncated(t *testing.T) {
	blob := blobEntry(nil, 0x6f, 8200)
	// a code whose value bytes run past the end must be ignored
	blob = append(blob, 0x70, 0x01, 0x04, 0x00)

	levels := supply.ParseBrotherMaintenance(blob)
	if got := levels[catalog.SlotTonerBlack]; got != 82 {
		t.Errorf("toner.black = %d, want 82", got)
	}
	if _, ok := levels[catalog.SlotTonerCyan]; ok {
		t.Error("truncated entry must not produce a reading")
	}
}

func TestParseBrotherMaintenanceEmpty(t *testing.T) {
	if levels := supply.ParseBrotherMaintenance(nil); len(levels) != 0 {
		t.Errorf("empty blob produced %v", levels)
	}
}

func TestIsBrother(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"Brother HL-L2350DW series", true},
		{"brother MFC-9340CDW", true},
		{"Kyocera ECOSYS M5526cdw", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := supply.IsBrother(tt.model); got != tt.want {
			t.Errorf("IsBrother(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestBrotherMaintenanceOID(t *testing.T) {
	legacy := supply.BrotherMaintenanceOID("Brother HL-5350DN series")
	modern := supply.BrotherMaintenanceOID("Brother HL-L8360CDW series")
	if legacy == modern {
		t.Error("HL-5350DN must use the legacy next-care object")
	}
}

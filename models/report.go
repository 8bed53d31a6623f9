package models

import "time"

// SlotState tells whether a supply slot carries a usable percentage.
type SlotState string

const (
	// SlotOK means Percent holds a computed 0..100 value.
	SlotOK SlotState = "ok"
	// SlotUnknown means the target answered for the slot but a ratio could
	// not be computed (max level absent or zero).
	SlotUnknown SlotState = "unknown"
	// SlotUnsupported means the model has no such slot: both catalog OIDs
	// are empty or the agent reported no-such-object for both reads.
	SlotUnsupported SlotState = "unsupported"
)

// SlotLevel is the resolved state of one consumable channel.
type SlotLevel struct {
	State   SlotState `json:"state"`
	Percent int64     `json:"percent"`
	Level   int64     `json:"level,omitempty"`
	Max     int64     `json:"max_level,omitempty"`
}

// Metrics holds impression counters. Nil pointers mean the counter is
// unknown for this target, which is distinct from zero pages.
type Metrics struct {
	TotalImpressions *int64 `json:"total_impressions"`
	MonoImpressions  *int64 `json:"mono_impressions"`
	ColorImpressions *int64 `json:"color_impressions"`
}

// SupplyReport is the final product of one poll: per-slot levels keyed by
// slot name ("toner.black", "drum.cyan", "fuser", ...), optional impression
// metrics and poll metadata. It is immutable after construction; renderers
// and the history sink only read it.
type SupplyReport struct {
	Target  string        `json:"target"`
	Model   string        `json:"model"`
	Serial  string        `json:"serial,omitempty"`
	Version Version       `json:"snmp_version"`
	Elapsed time.Duration `json:"elapsed"`

	Slots   map[string]SlotLevel `json:"slots"`
	Metrics *Metrics             `json:"metrics,omitempty"`
}

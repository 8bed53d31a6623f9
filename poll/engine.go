// Package poll orchestrates poll attempts against one target: it opens a
// session, gathers the OID set the catalog prescribes for the identified
// model, and hands the raw readings to the normalizer. All retry and
// deadline decisions live here and nowhere else.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/snmp"
	"github.com/inkstat/printer-snmp-poller/supply"
	"go.uber.org/zap"
)

// hrDeviceDescr.1 names the printer (HOST-RESOURCES-MIB).
const hrDeviceDescrOID = "1.3.6.1.2.1.25.3.2.1.3.1"

// ExhaustedError is the terminal failure after the retry budget is spent.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("poll failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Progress is invoked after every attempt, successful or not. It is owned
// by the UI layer; a nil callback is fine.
type Progress func(attempt, total int, err error)

// Opener dials a target. Swappable so tests can poll a fake agent.
type Opener func(models.ConnectionSpec, *zap.Logger) (snmp.Session, error)

type Engine struct {
	logger   *zap.Logger
	open     Opener
	progress Progress
}

// New builds an engine. open defaults to snmp.Open when nil.
func New(logger *zap.Logger, open Opener, progress Progress) *Engine {
	if open == nil {
		open = snmp.Open
	}
	return &Engine{logger: logger, open: open, progress: progress}
}

// Poll runs sequential attempts against spec until one succeeds, a fatal
// error occurs, or the policy is exhausted. The whole operation is bounded
// by timeout x (retries + 1) of wall clock; attempts never overlap.
func (e *Engine) Poll(ctx context.Context, spec models.ConnectionSpec, cat *catalog.Catalog, policy models.RetryPolicy) (*models.SupplyReport, error) {
	if policy.Timeout <= 0 {
		policy.Timeout = spec.Timeout
	}
	if policy.Timeout <= 0 {
		policy.Timeout = models.DefaultTimeout
	}
	// An in-flight request only honors the session timeout, not the deadline
	// context, so the session must never wait longer than one retry slice.
	spec.Timeout = policy.Timeout

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, policy.Bound())
	defer cancel()

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= policy.Attempts(); attempt++ {
		if ctx.Err() != nil {
			break
		}
		attempts = attempt

		report, err := e.attempt(ctx, spec, cat)
		if e.progress != nil {
			e.progress(attempt, policy.Attempts(), err)
		}
		if err == nil {
			report.Target = spec.Host
			report.Version = spec.Version
			report.Elapsed = time.Since(start)
			return report, nil
		}

		lastErr = err
		if !snmp.Retryable(err) {
			e.logger.Debug("fatal poll error, not retrying",
				zap.String("target", spec.Host), zap.Error(err))
			return nil, err
		}
		e.logger.Debug("attempt failed",
			zap.String("target", spec.Host), zap.Int("attempt", attempt), zap.Error(err))
	}

	if lastErr == nil {
		lastErr = errOf(ctx)
	}
	return nil, &ExhaustedError{Attempts: attempts, Last: lastErr}
}

func errOf(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return snmp.ErrTimeout
}

// attempt is one full exchange: connect, identify the model, read the slot
// OIDs, normalize. The session closes on every exit path.
func (e *Engine) attempt(ctx context.Context, spec models.ConnectionSpec, cat *catalog.Catalog) (*models.SupplyReport, error) {
	sess, err := e.open(spec, e.logger)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	model, err := e.identify(ctx, sess)
	if err != nil {
		return nil, err
	}

	if entry, ok := cat.Lookup(model); ok {
		return e.readCatalog(ctx, sess, model, entry)
	}
	if supply.IsBrother(model) {
		return e.readBrother(ctx, sess, model)
	}

	e.logger.Debug("model not in catalog, using generic probe", zap.String("model", model))
	return e.readCatalog(ctx, sess, model, catalog.GenericProbe())
}

func (e *Engine) identify(ctx context.Context, sess snmp.Session) (string, error) {
	vals, err := sess.Get(ctx, []string{hrDeviceDescrOID})
	if err != nil {
		return "", err
	}
	if len(vals) == 0 || vals[0].Absent() {
		return "", nil
	}
	return vals[0].String(), nil
}

// readCatalog gathers every OID the entry names in one batched exchange.
// Per-OID absence is data: the normalizer maps it to unsupported slots.
func (e *Engine) readCatalog(ctx context.Context, sess snmp.Session, model string, entry *catalog.Entry) (*models.SupplyReport, error) {
	samples := supply.NewSamples()

	var oids []string
	var assign []func(snmp.RawValue)

	want := func(oid string, set func(snmp.RawValue)) {
		if oid == "" {
			return
		}
		oids = append(oids, oid)
		assign = append(assign, set)
	}

	for _, name := range catalog.SlotNames {
		name := name
		slot := entry.Slot(name)
		want(slot.Level, func(v snmp.RawValue) {
			s := samples.Slots[name]
			s.Level = v
			samples.Slots[name] = s
		})
		want(slot.MaxLevel, func(v snmp.RawValue) {
			s := samples.Slots[name]
			s.Max = v
			samples.Slots[name] = s
		})
	}
	want(entry.Metrics.Total, func(v snmp.RawValue) { samples.Total = v })
	want(entry.Metrics.Mono, func(v snmp.RawValue) { samples.Mono = v })
	want(entry.Metrics.Color, func(v snmp.RawValue) { samples.Color = v })
	want(entry.SerialOID, func(v snmp.RawValue) { samples.Serial = v })

	vals, err := sess.Get(ctx, oids)
	if err != nil {
		return nil, err
	}
	if len(vals) != len(oids) {
		return nil, fmt.Errorf("%w: got %d values for %d oids", snmp.ErrDecode, len(vals), len(oids))
	}
	for i, v := range vals {
		assign[i](v)
	}

	slots, metrics := supply.Normalize(samples, entry)
	report := &models.SupplyReport{
		Model:   model,
		Slots:   slots,
		Metrics: metrics,
	}
	if !samples.Serial.Absent() && samples.Serial.Kind == snmp.KindBytes {
		report.Serial = string(samples.Serial.Bytes)
	}
	return report, nil
}

// readBrother serves Brother models that are absent from the catalog: their
// percentages come pre-computed inside the maintenance blob.
func (e *Engine) readBrother(ctx context.Context, sess snmp.Session, model string) (*models.SupplyReport, error) {
	const serialOID = "1.3.6.1.2.1.43.5.1.1.17.1"

	vals, err := sess.Get(ctx, []string{serialOID, supply.BrotherMaintenanceOID(model)})
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("%w: short brother response", snmp.ErrDecode)
	}

	report := &models.SupplyReport{
		Model: model,
		Slots: make(map[string]models.SlotLevel, len(catalog.SlotNames)),
	}
	if vals[0].Kind == snmp.KindBytes {
		report.Serial = string(vals[0].Bytes)
	}

	var levels map[string]int64
	if vals[1].Kind == snmp.KindBytes {
		levels = supply.ParseBrotherMaintenance(vals[1].Bytes)
	}
	for _, name := range catalog.SlotNames {
		if pct, ok := levels[name]; ok {
			report.Slots[name] = models.SlotLevel{State: models.SlotOK, Percent: pct}
		} else {
			report.Slots[name] = models.SlotLevel{State: models.SlotUnsupported}
		}
	}
	return report, nil
}

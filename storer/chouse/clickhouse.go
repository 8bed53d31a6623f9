// Package chouse streams finished supply reports into ClickHouse for
// fleet-mode history. Reports are buffered on a channel and flushed in
// batches so slow inserts never block the pollers.
package chouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// counterUnknown marks an impression counter the target did not report.
// Zero pages is a real value, so the sentinel must live outside the range.
const counterUnknown = int64(-1)

type ClickhouseClient struct {
	dbName         string
	tableName      string
	flushBatchSize int
	conn           driver.Conn
	queue          chan *models.SupplyReport
	logger         *zap.Logger
}

func New(logger *zap.Logger, conn driver.Conn, queueSize int, dbName, tableName string, flushBatchSize int,
) *ClickhouseClient {
	return &ClickhouseClient{
		logger:         logger,
		conn:           conn,
		queue:          make(chan *models.SupplyReport, queueSize),
		dbName:         dbName,
		tableName:      tableName,
		flushBatchSize: flushBatchSize,
	}
}

func (c *ClickhouseClient) Write(report *models.SupplyReport) {
	c.logger.Debug("enqueue report", zap.String("target", report.Target))
	c.queue <- report
}

func (c *ClickhouseClient) StartQueue(ctx context.Context, errGroup *errgroup.Group) {
	errGroup.Go(func() error {
		reports := []*models.SupplyReport{}
		for r := range c.queue {
			reports = append(reports, r)
			if len(reports) >= c.flushBatchSize {
				c.logger.Info("flushing report batch", zap.Int("reports", len(reports)))
				if err := c.insert(reports); err != nil {
					c.logger.Error("error inserting batch", zap.Error(err))
				}
				reports = nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				// keep working
			}
		}
		return nil
	})
}

func (c *ClickhouseClient) insert(reports []*models.SupplyReport) error {
	batch, err := c.conn.PrepareBatch(context.Background(), fmt.Sprintf("INSERT INTO %s.%s", c.dbName, c.tableName))
	if err != nil {
		return err
	}

	now := time.Now().UTC().UnixMilli()
	for _, report := range reports {
		total, mono, color := counters(report.Metrics)

		for _, name := range catalog.SlotNames {
			slot, ok := report.Slots[name]
			if !ok {
				continue
			}
			if err := batch.Append(
				now,
				report.Target,
				report.Model,
				report.Serial,
				string(report.Version),
				name,
				string(slot.State),
				slot.Percent,
				slot.Level,
				slot.Max,
				total,
				mono,
				color,
				report.Elapsed.Milliseconds(),
			); err != nil {
				return err
			}
		}
	}
	if err := batch.Send(); err != nil {
		return err
	}
	c.logger.Info("sent successfully", zap.Int("reports", len(reports)))
	return nil
}

func counters(m *models.Metrics) (total, mono, color int64) {
	total, mono, color = counterUnknown, counterUnknown, counterUnknown
	if m == nil {
		return
	}
	if m.TotalImpressions != nil {
		total = *m.TotalImpressions
	}
	if m.MonoImpressions != nil {
		mono = *m.MonoImpressions
	}
	if m.ColorImpressions != nil {
		color = *m.ColorImpressions
	}
	return
}

func (c *ClickhouseClient) InitDb(ctx context.Context) error {
	stm := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		time Int64,
		target VARCHAR(255),
		model VARCHAR(255),
		serial VARCHAR(255),
		snmp_version VARCHAR(8),
		slot VARCHAR(32),
		state VARCHAR(16),
		percent Int64,
		level Int64,
		max_level Int64,
		total_impressions Int64,
		mono_impressions Int64,
		color_impressions Int64,
		elapsed_ms Int64
	)
	ENGINE = MergeTree
	ORDER BY tuple()`,
		c.dbName, c.tableName)
	return c.conn.Exec(ctx, stm)
}

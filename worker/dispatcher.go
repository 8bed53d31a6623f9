package worker

import (
	"context"
	"time"

	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/inventory"
	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/poll"
	"github.com/inkstat/printer-snmp-poller/resolve"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessFunc receives every finished report, e.g. the clickhouse sink.
type ProcessFunc func(report *models.SupplyReport) error

type Queue struct {
	logger     *zap.Logger
	store      inventory.Store
	engine     *poll.Engine
	cat        *catalog.Catalog
	policy     models.RetryPolicy
	jobChan    chan *inventory.Entry
	interval   time.Duration
	processor  ProcessFunc
	eg         *errgroup.Group
	numWorkers int
}

func New(logger *zap.Logger, store inventory.Store, engine *poll.Engine, cat *catalog.Catalog,
	policy models.RetryPolicy, interval time.Duration, processor ProcessFunc,
	eg *errgroup.Group, numWorkers int) *Queue {
	logger.Info("created new queue")
	return &Queue{
		logger:     logger,
		store:      store,
		engine:     engine,
		cat:        cat,
		policy:     policy,
		jobChan:    make(chan *inventory.Entry),
		interval:   interval,
		processor:  processor,
		eg:         eg,
		numWorkers: numWorkers,
	}
}

func (q *Queue) StartDispatcher(ctx context.Context) error {
	ticker := time.NewTicker(q.interval)
	q.logger.Info("start dispatcher to run every", zap.Any("interval", q.interval))

	for {
		select {
		case <-ticker.C:
			// TODO cache this call
			q.logger.Info("woke up to list printers")
			entries, err := q.store.List(ctx)
			if err != nil {
				return err
			}
			q.logger.Info("found printers", zap.Int("printers", len(entries)))
			for i := range entries {
				entry := entries[i]
				q.logger.Info("enqueue poll", zap.String("alias", entry.Alias))
				select {
				case q.jobChan <- &entry:
				case <-ctx.Done():
					ticker.Stop()
					return nil
				}
			}
		case <-ctx.Done():
			q.logger.Info("stopping dispatcher")
			ticker.Stop()
			return nil
		}
	}
}

func (q *Queue) StartWorkerPool(ctx context.Context) error {
	q.logger.Info("starting worker pool", zap.Any("workers", q.numWorkers))
	for i := 0; i < q.numWorkers; i++ {
		q.eg.Go(func() error {
			for job := range q.jobChan {
				job := job
				if err := q.worker(ctx, job); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return nil
}

func (q *Queue) worker(ctx context.Context, job *inventory.Entry) error {
	select {
	case <-ctx.Done():
		q.logger.Info("worker is shutting down")
		return nil
	default:
		q.logger.Info("received a job to process", zap.String("alias", job.Alias))
		// one printer failing must not stop the pool
		if err := q.process(ctx, job); err != nil {
			q.logger.Error("poll failed", zap.String("alias", job.Alias), zap.Error(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
}

func (q *Queue) process(ctx context.Context, job *inventory.Entry) error {
	spec, err := resolve.Resolve(job.Alias, job, resolve.Options{})
	if err != nil {
		return err
	}

	report, err := q.engine.Poll(ctx, spec, q.cat, q.policy)
	if err != nil {
		return err
	}
	return q.processor(report)
}

// Command inkstat reads supply levels from network printers over SNMP.
//
// Single target:
//
//	inkstat 192.168.1.50
//	inkstat office -o json
//
// Fleet mode polls every inventory entry on an interval and streams the
// reports into ClickHouse:
//
//	inkstat -fleet
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/config"
	"github.com/inkstat/printer-snmp-poller/internal/lgr"
	"github.com/inkstat/printer-snmp-poller/inventory"
	"github.com/inkstat/printer-snmp-poller/inventory/file"
	"github.com/inkstat/printer-snmp-poller/inventory/sql"
	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/poll"
	"github.com/inkstat/printer-snmp-poller/render"
	"github.com/inkstat/printer-snmp-poller/resolve"
	"github.com/inkstat/printer-snmp-poller/storer/chouse"
	"github.com/inkstat/printer-snmp-poller/worker"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type cliFlags struct {
	initInventory bool
	fleet         bool

	inventoryPath string
	dataDir       string

	version   string
	port      uint
	timeout   uint
	retries   uint
	community string

	username      string
	securityLevel string
	authProto     string
	authPass      string
	privProto     string
	privPass      string
	contextName   string

	output  string
	theme   string
	extra   bool
	metrics bool
}

func main() {
	var f cliFlags
	fs := newFlagSet(&f)
	fs.Parse(os.Args[1:])

	if f.initInventory {
		if err := file.WriteTemplate(f.inventoryPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", f.inventoryPath)
		return
	}

	if f.fleet {
		runFleet()
		return
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inkstat [flags] <host|alias>")
		fs.PrintDefaults()
		os.Exit(2)
	}
	runOnce(fs, &f, fs.Arg(0))
}

func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("inkstat", flag.ExitOnError)
	fs.BoolVar(&f.initInventory, "init", false, "write a starter inventory file and exit")
	fs.BoolVar(&f.fleet, "fleet", false, "poll the whole inventory on an interval (configured via env)")
	fs.StringVar(&f.inventoryPath, "inventory", file.DefaultPath(), "inventory file")
	fs.StringVar(&f.dataDir, "d", "", "directory with extra OID catalog files")
	fs.StringVar(&f.version, "snmp-version", "", "SNMP version: v1, v2c or v3")
	fs.UintVar(&f.port, "p", uint(models.DefaultPort), "SNMP port")
	fs.UintVar(&f.timeout, "timeout", 0, "per request timeout in seconds")
	fs.UintVar(&f.retries, "retries", 3, "retries after the first attempt")
	fs.StringVar(&f.community, "c", "", "community string (v1/v2c)")
	fs.StringVar(&f.username, "u", "", "security name (v3)")
	fs.StringVar(&f.securityLevel, "l", "", "security level: noAuthNoPriv, authNoPriv or authPriv")
	fs.StringVar(&f.authProto, "a", "", "auth protocol: md5, sha1, sha224, sha256, sha384 or sha512")
	fs.StringVar(&f.authPass, "A", "", "auth password")
	fs.StringVar(&f.privProto, "x", "", "privacy protocol: des, aes128, aes192 or aes256")
	fs.StringVar(&f.privPass, "X", "", "privacy password")
	fs.StringVar(&f.contextName, "n", "", "context name (v3)")
	fs.StringVar(&f.output, "o", "text", "output format: text, json or csv")
	fs.StringVar(&f.theme, "theme", "solid", "gauge theme for text output")
	fs.BoolVar(&f.extra, "E", false, "show drum, fuser and other extra supplies")
	fs.BoolVar(&f.metrics, "m", false, "show impression counters")
	return fs
}

func runOnce(fs *flag.FlagSet, f *cliFlags, target string) {
	logger := lgr.InitializeCLILogger()
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cat, err := catalog.Load(f.dataDir)
	if err != nil {
		fatal(logger, "cannot load OID catalogs", err)
	}

	inv, err := file.Open(f.inventoryPath, logger)
	if err != nil {
		fatal(logger, "cannot read inventory", err)
	}
	base, err := inv.Lookup(ctx, target)
	if err != nil {
		fatal(logger, "inventory lookup failed", err)
	}
	if base != nil {
		fmt.Fprintf(os.Stderr, "using saved printer %q (%s)\n", base.Alias, base.Host)
	}

	opts, err := overrides(fs, f)
	if err != nil {
		fatal(logger, "bad flag value", err)
	}
	spec, err := resolve.Resolve(target, base, opts)
	if err != nil {
		fatal(logger, "cannot resolve target", err)
	}

	format, err := render.ParseFormat(f.output)
	if err != nil {
		fatal(logger, "bad output format", err)
	}
	theme, err := render.ParseTheme(f.theme)
	if err != nil {
		fatal(logger, "bad theme", err)
	}

	policy := models.RetryPolicy{
		Timeout: time.Duration(f.timeout) * time.Second,
		Retries: int(f.retries),
	}

	progress := func(attempt, total int, err error) {
		if err != nil && attempt < total {
			fmt.Fprintf(os.Stderr, "attempt %d/%d failed: %v, retrying\n", attempt, total, err)
		}
	}

	engine := poll.New(logger, nil, progress)
	report, err := engine.Poll(ctx, spec, cat, policy)
	if err != nil {
		var exhausted *poll.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Fprintf(os.Stderr, "%s did not answer: %v\n", spec.Host, exhausted.Last)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	err = render.Report(os.Stdout, report, render.Options{
		Format:  format,
		Theme:   theme,
		Extra:   f.extra,
		Metrics: f.metrics,
	})
	if err != nil {
		fatal(logger, "cannot render report", err)
	}
}

// overrides maps only the flags the user actually set, so inventory values
// survive unless explicitly overridden.
func overrides(fs *flag.FlagSet, f *cliFlags) (resolve.Options, error) {
	var opts resolve.Options
	var parseErr error
	fs.Visit(func(fl *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch fl.Name {
		case "p":
			if f.port > 65535 {
				parseErr = fmt.Errorf("port %d out of range", f.port)
				return
			}
			port := uint16(f.port)
			opts.Port = &port
		case "snmp-version":
			v, err := models.ParseVersion(f.version)
			if err != nil {
				parseErr = err
				return
			}
			opts.Version = &v
		case "c":
			opts.Community = &f.community
		case "u":
			opts.Username = &f.username
		case "l":
			l, err := models.ParseSecurityLevel(f.securityLevel)
			if err != nil {
				parseErr = err
				return
			}
			opts.SecurityLevel = &l
		case "a":
			p, err := models.ParseAuthProtocol(f.authProto)
			if err != nil {
				parseErr = err
				return
			}
			opts.AuthProtocol = &p
		case "A":
			opts.AuthPassword = &f.authPass
		case "x":
			p, err := models.ParsePrivProtocol(f.privProto)
			if err != nil {
				parseErr = err
				return
			}
			opts.PrivProtocol = &p
		case "X":
			opts.PrivPassword = &f.privPass
		case "n":
			opts.ContextName = &f.contextName
		case "timeout":
			d := time.Duration(f.timeout) * time.Second
			opts.Timeout = &d
		}
	})
	return opts, parseErr
}

func runFleet() {
	logger := lgr.InitializeLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var cfg config.FromEnv
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.Fatal("cannot read config", zap.Error(err))
	}

	// handle ctrl + c
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		logger.Fatal("cannot load OID catalogs", zap.Error(err))
	}

	store, closeStore, err := openInventory(&cfg, logger)
	if err != nil {
		logger.Fatal("cannot open inventory", zap.Error(err))
	}
	defer closeStore()

	conn, err := clickhouse.Open(clickHouseOptions(&cfg))
	if err != nil {
		logger.Fatal("cannot connect to clickhouse", zap.Error(err))
	}

	storerGroup, sctx := errgroup.WithContext(ctx)
	sink := chouse.New(logger, conn, cfg.ClickhouseQueueLength, cfg.ClickhouseDb,
		cfg.ClickhouseSuppliesTableName, cfg.ClickhouseFlushFrequency)
	if err := sink.InitDb(sctx); err != nil {
		logger.Fatal("error init db", zap.Error(err))
	}
	sink.StartQueue(sctx, storerGroup)

	engine := poll.New(logger, nil, nil)
	policy := models.RetryPolicy{
		Timeout: time.Duration(cfg.PollTimeoutSeconds) * time.Second,
		Retries: cfg.PollRetries,
	}
	interval := time.Duration(cfg.PollingIntervalSeconds) * time.Second

	workerGroup, wctx := errgroup.WithContext(ctx)
	q := worker.New(logger, store, engine, cat, policy, interval, func(report *models.SupplyReport) error {
		sink.Write(report)
		return nil
	}, workerGroup, cfg.WorkersNum)
	q.StartWorkerPool(wctx)

	group, qctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return q.StartDispatcher(qctx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("error occurred", zap.Error(err))
	} else {
		logger.Info("have a jolly day")
	}
}

func openInventory(cfg *config.FromEnv, logger *zap.Logger) (inventory.Store, func(), error) {
	if !cfg.UseDb() {
		path := cfg.InventoryPath
		if path == "" {
			path = file.DefaultPath()
		}
		store, err := file.Open(path, logger)
		return store, func() {}, err
	}

	connString := fmt.Sprintf("%s:%s@(%s:%s)/%s",
		cfg.DbUsername, cfg.DbPassword, cfg.DbHost, cfg.DbPort, cfg.DbName)
	db, err := sqlx.Connect("mysql", connString)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return sql.New(db, logger), func() { db.Close() }, nil
}

func clickHouseOptions(cfg *config.FromEnv) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.ClickhouseAddr, cfg.ClickhousePort)},
		Auth: clickhouse.Auth{
			Database: cfg.ClickhouseDb,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

func fatal(logger *zap.Logger, msg string, err error) {
	logger.Debug(msg, zap.Error(err))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

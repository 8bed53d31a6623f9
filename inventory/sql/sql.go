// Package sql implements the inventory against a relational database, for
// fleet deployments that keep their printer estate in MySQL/MariaDB.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/inkstat/printer-snmp-poller/inventory"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const listQuery = `SELECT alias, host, port, snmp_version, community, username, security_level, auth_protocol, auth_password, priv_protocol, priv_password, context_name, timeout_seconds FROM printers;`

const lookupQuery = `SELECT alias, host, port, snmp_version, community, username, security_level, auth_protocol, auth_password, priv_protocol, priv_password, context_name, timeout_seconds FROM printers WHERE alias = ? LIMIT 1;`

type Client struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func New(db *sqlx.DB, logger *zap.Logger) *Client {
	return &Client{
		db:     db,
		logger: logger,
	}
}

func (c *Client) Lookup(ctx context.Context, alias string) (*inventory.Entry, error) {
	var entry inventory.Entry
	err := c.db.GetContext(ctx, &entry, lookupQuery, alias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("error lookup printer", zap.String("alias", alias), zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

func (c *Client) List(ctx context.Context) ([]inventory.Entry, error) {
	var entries []inventory.Entry
	query := os.Getenv("INVENTORY_QUERY")
	if query == "" {
		query = listQuery
	}
	err := c.db.SelectContext(ctx, &entries, query)
	if err != nil {
		c.logger.Error("error list printers", zap.Error(err))
	}
	return entries, err
}

package config

type FromEnv struct {
	PollingIntervalSeconds int    `env:"POLLING_INTERVAL_SECONDS,required"`
	WorkersNum             int    `env:"WORKERS_NUM,required"`
	LogLevel               string `env:"LOG_LEVEL"`

	// Printer inventory. When the MySQL credentials are unset the fleet
	// poller falls back to the TOML inventory file.
	InventoryPath string `env:"INVENTORY_PATH"`
	DbUsername    string `env:"DB_USERNAME"`
	DbPassword    string `env:"DB_PASSWORD"`
	DbHost        string `env:"DB_HOST"`
	DbPort        string `env:"DB_PORT"`
	DbName        string `env:"DB_NAME"`

	// Extra OID catalogs merged over the built in ones.
	CatalogDir string `env:"CATALOG_DIR"`

	PollTimeoutSeconds int `env:"POLL_TIMEOUT_SECONDS,default=5"`
	PollRetries        int `env:"POLL_RETRIES,default=3"`

	ClickhouseSuppliesTableName string `env:"CLICKHOUSE_SUPPLIES_TABLE_NAME,required"`

	ClickhouseQueueLength    int    `env:"CLICKHOUSE_QUEUE_LENGTH,required"`
	ClickhouseFlushFrequency int    `env:"CLICKHOUSE_FLUSH_FREQUENCY,required"`
	ClickhouseDb             string `env:"CLICKHOUSE_DB,required"`
	ClickhouseUsername       string `env:"CLICKHOUSE_USERNAME,required"`
	ClickhousePassword       string `env:"CLICKHOUSE_PASSWORD,required"`
	ClickhouseAddr           string `env:"CLICKHOUSE_ADDR,required"`
	ClickhousePort           string `env:"CLICKHOUSE_PORT,required"`
}

// UseDb reports whether a MySQL inventory is configured.
func (c *FromEnv) UseDb() bool {
	return c.DbHost != "" && c.DbUsername != "" && c.DbName != ""
}

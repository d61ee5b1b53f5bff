package pg

import "errors"

var (
	// ErrParseConfig indicates the connection string could not be parsed.
	ErrParseConfig = errors.New("pg.parse_config_failed")

	// ErrConnect indicates no connection could be established after all
	// retry attempts.
	ErrConnect = errors.New("pg.connect_failed")

	// ErrMigrate indicates schema migrations could not be applied.
	ErrMigrate = errors.New("pg.migrate_failed")
)

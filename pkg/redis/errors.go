package redis

import "errors"

var (
	// ErrParseConfig indicates the connection URL could not be parsed.
	ErrParseConfig = errors.New("redis.parse_config_failed")

	// ErrConnect indicates no connection could be established after all
	// retry attempts.
	ErrConnect = errors.New("redis.connect_failed")

	// ErrHealthcheck indicates a readiness probe failed.
	ErrHealthcheck = errors.New("redis.healthcheck_failed")
)

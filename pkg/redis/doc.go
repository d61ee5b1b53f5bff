// Package redis bootstraps the Redis connection used by the shared
// module-access projection: an env-driven Config, a Connect with retry,
// and a readiness probe.
package redis

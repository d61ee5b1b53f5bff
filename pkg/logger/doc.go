// Package logger provides slog helpers shared across casekit packages:
// a factory that builds a configured *slog.Logger from environment-driven
// settings, and attribute constructors that keep log field names consistent
// (user_id, role, module, component, ...).
//
// Usage:
//
//	log := logger.New(logger.WithFormat(logger.FormatJSON))
//	log.Info("grants refreshed",
//	    logger.Component("access.ModuleCache"),
//	    logger.Role(role),
//	)
package logger

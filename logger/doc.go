// Package logger adapts popular logging libraries to strata's Logger
// interface.
//
// The standard library's slog.Logger already satisfies strata.Logger
// directly; these adapters cover zap and logrus without boilerplate.
//
// Example with zap:
//
//	zl, _ := zap.NewProduction()
//
//	cat, err := strata.Open("/var/lib/strata",
//	    strata.WithLogger(logger.NewZap(zl)),
//	)
//	if err != nil {
//	    panic(err)
//	}
package logger

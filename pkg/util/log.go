package util

import "go.uber.org/zap"

// GLogger is the process-wide structured logger. Components that do not
// need a logger of their own (aggregate hash tables, the executor, hashid)
// log through the package-level helpers below, matching the un-contexted
// call sites already present in cmd/main and pkg/storage.
var GLogger = zap.NewNop()

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	GLogger = l
}

func Debug(msg string, fields ...zap.Field) {
	GLogger.WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GLogger.WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GLogger.WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GLogger.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

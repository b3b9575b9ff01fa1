package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global SugaredLogger instance.
// Initialized with a no-op logger until Init is called.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init sets up the global logger with the given log level.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}

func Info(msg string, keysAndValues ...interface{}) {
	Log.Infow(msg, keysAndValues...)
}

func Infof(format string, v ...interface{}) {
	Log.Infof(format, v...)
}

func Error(msg string, keysAndValues ...interface{}) {
	Log.Errorw(msg, keysAndValues...)
}

func Errorf(format string, v ...interface{}) {
	Log.Errorf(format, v...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	Log.Debugw(msg, keysAndValues...)
}

func Debugf(format string, v ...interface{}) {
	Log.Debugf(format, v...)
}

func Fatal(msg string) {
	Log.Fatal(msg)
}

func Fatalf(format string, v ...interface{}) {
	Log.Fatalf(format, v...)
}

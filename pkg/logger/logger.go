package logger

import (
	"log"

	"go.uber.org/zap"
)

var Log *zap.Logger

// Init process-wide logger'ı kurar. main tarafından bir kez çağrılır.
func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Log = l
}

func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

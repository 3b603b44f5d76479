package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LogDir = "logs"

var mu sync.Mutex
var loggers = make(map[string]*zap.SugaredLogger)

func createLogger(fileName string) (*zap.SugaredLogger, error) {
	filePath := filepath.Join(LogDir, fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(logFile),
			zap.InfoLevel,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			zap.WarnLevel,
		),
	)

	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

// GetLogger returns the shared logger for a service, backed by a JSON log
// file named after it under LogDir.
func GetLogger(service string) (*zap.SugaredLogger, error) {
	fileName := strings.ToLower(strings.ReplaceAll(service, " ", "_")) + ".log"

	mu.Lock()
	defer mu.Unlock()

	if logger, ok := loggers[fileName]; ok {
		return logger, nil
	}

	logger, err := createLogger(fileName)
	if err != nil {
		return nil, err
	}

	loggers[fileName] = logger

	return logger, nil
}

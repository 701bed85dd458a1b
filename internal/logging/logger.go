package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"notifyd/internal/config"
)

const logDir = "logs"

func New(cfg *config.Config) (*zap.Logger, error) {
	service := zap.Fields(zap.String("service", cfg.OTELServiceName))
	if os.Getenv("GIN_MODE") != "release" {
		return zap.NewDevelopment(service)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(
			zapcore.AddSync(os.Stdout),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   filepath.Join(logDir, cfg.OTELServiceName+".log"),
				MaxSize:    50,
				MaxBackups: 5,
				MaxAge:     14,
				Compress:   true,
			}),
		),
		zap.InfoLevel,
	)
	return zap.New(core, service, zap.AddCaller()), nil
}

package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Zap оборачивает *zap.Logger, чтобы пакеты не зависели от глобального логгера.
type Zap struct {
	*zap.Logger
}

// FileConfig описывает ротацию файла логов.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func New(env, level string) (*Zap, error) {
	return NewWithFile(env, level, FileConfig{})
}

// NewWithFile дублирует вывод в JSON-файл с ротацией, если указан путь.
func NewWithFile(env, level string, file FileConfig) (*Zap, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}

	var consoleEncoder zapcore.Encoder
	if env == "prod" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEncoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		consoleEncoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), lvl),
	}

	if file.Path != "" {
		fileEncCfg := zap.NewProductionEncoderConfig()
		fileEncCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncCfg), writer, lvl))
	}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if env != "prod" {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}

	return &Zap{Logger: zap.New(zapcore.NewTee(cores...), opts...)}, nil
}

// Nop возвращает логгер, который ничего не пишет.
func Nop() *Zap {
	return &Zap{Logger: zap.NewNop()}
}

// Wrap оборачивает уже созданный логгер (например, zaptest в тестах).
func Wrap(l *zap.Logger) *Zap {
	return &Zap{Logger: l}
}

// Named возвращает дочерний логгер с именем компонента.
func (z *Zap) Named(name string) *Zap {
	return &Zap{Logger: z.Logger.Named(name)}
}

// With возвращает дочерний логгер с дополнительными полями.
func (z *Zap) With(fields ...zap.Field) *Zap {
	return &Zap{Logger: z.Logger.With(fields...)}
}

package logger

import (
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const rotationScheme = "lumberjack"

var registerRotation sync.Once

type ConfigOption func(cfg zap.Config) zap.Config

// WithCustomField добавляет постоянные поля в логи
func WithCustomField(key, value string) ConfigOption {
	return func(cfg zap.Config) zap.Config {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]interface{}{}
		}
		cfg.InitialFields[key] = value

		return cfg
	}
}

func WithOutputPaths(paths []string) ConfigOption {
	return func(cfg zap.Config) zap.Config {
		cfg.OutputPaths = paths
		return cfg
	}
}

// WithLevel уровень логирования по имени (debug, info, warn, error).
// Неизвестное имя оставляет уровень без изменений.
func WithLevel(name string) ConfigOption {
	return func(cfg zap.Config) zap.Config {
		if lvl, err := zapcore.ParseLevel(name); err == nil && name != "" {
			cfg.Level.SetLevel(lvl)
		}
		return cfg
	}
}

// WithFileRotation дописывает к выводам файл с ротацией по размеру
func WithFileRotation(filename string, maxSizeMB, maxBackups, maxAgeDays int) ConfigOption {
	return func(cfg zap.Config) zap.Config {
		if filename == "" {
			return cfg
		}
		registerRotation.Do(func() {
			_ = zap.RegisterSink(rotationScheme, newRotationSink)
		})

		q := url.Values{}
		q.Set("file", filename)
		q.Set("size", strconv.Itoa(maxSizeMB))
		q.Set("backups", strconv.Itoa(maxBackups))
		q.Set("age", strconv.Itoa(maxAgeDays))
		cfg.OutputPaths = append(cfg.OutputPaths, rotationScheme+":?"+q.Encode())

		return cfg
	}
}

type rotationSink struct {
	*lumberjack.Logger
}

func (rotationSink) Sync() error {
	return nil
}

func newRotationSink(u *url.URL) (zap.Sink, error) {
	q := u.Query()
	size, _ := strconv.Atoi(q.Get("size"))
	backups, _ := strconv.Atoi(q.Get("backups"))
	age, _ := strconv.Atoi(q.Get("age"))

	return rotationSink{Logger: &lumberjack.Logger{
		Filename:   q.Get("file"),
		MaxSize:    size,
		MaxBackups: backups,
		MaxAge:     age,
		Compress:   true,
	}}, nil
}

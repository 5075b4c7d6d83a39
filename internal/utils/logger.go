package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PavaniTiago/survey-api/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger instala um logger JSON como padrão do slog, com rotação opcional em arquivo
func InitLogger(conf config.LoggerConfig) {
	opts := &slog.HandlerOptions{
		Level:     LogLevelFromString(conf.Level),
		AddSource: conf.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
					source.Function = strings.Replace(source.Function, "github.com/PavaniTiago/survey-api", "", -1)
				}
			}
			return a
		},
	}

	var w io.Writer = os.Stdout
	if conf.LogToFile && conf.Filename != "" {
		logTarget := &lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize, // megabytes
			MaxAge:     conf.MaxAge,  // days
			MaxBackups: conf.MaxBackups,
			Compress:   conf.CompressOldLogs,
		}
		w = io.MultiWriter(os.Stdout, logTarget)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
}

func LogLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package fiberlog

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		// per-request timing, the handler is shared across requests
		d := data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if c.Method() == "OPTIONS" {
			return err
		}

		entry := logEntry(cfg.Logger, getLogrusFields(ftm, c, &d))
		if skipPath(cfg.SkipPaths, c.Path()) {
			entry.Debug("api request")
			return err
		}
		if c.Response() != nil && c.Response().StatusCode() >= 300 {
			entry.Warn("api request")
		} else {
			entry.Info("api request")
		}
		return err
	}
}

func logEntry(logger *log.Logger, fields log.Fields) *log.Entry {
	if logger == nil {
		return log.WithFields(fields)
	}
	return logger.WithFields(fields)
}

func skipPath(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

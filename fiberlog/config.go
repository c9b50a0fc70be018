package fiberlog

import "github.com/sirupsen/logrus"

// Config is config for middleware
type Config struct {
	Logger *logrus.Logger
	// Tags selects the request fields attached to every access-log entry.
	Tags []string
	// SkipPaths are matched by prefix and logged at debug level only.
	SkipPaths []string
}

// ConfigDefault is the default config
var ConfigDefault Config = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		RequestID,
	},
	SkipPaths: []string{"/swagger"},
}

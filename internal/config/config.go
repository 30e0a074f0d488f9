package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Config interface {
	ListenPort() string
	TargetAddress() string

	BufferSize() int
	Streaming() bool
	MaxUnboundedBody() int64
	StrictFraming() bool

	IdleTimeout() time.Duration
	DialTimeout() time.Duration

	LogLevel() zapcore.Level
	LogDevelopment() bool

	PprofEnabled() bool
	PprofPort() string
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) ListenPort() string         { return c.listenPort }
func (c *config) TargetAddress() string      { return c.targetAddress }
func (c *config) BufferSize() int            { return c.bufferSize }
func (c *config) Streaming() bool            { return c.streaming }
func (c *config) MaxUnboundedBody() int64    { return c.maxUnboundedBody }
func (c *config) StrictFraming() bool        { return c.strictFraming }
func (c *config) IdleTimeout() time.Duration { return c.idleTimeout }
func (c *config) DialTimeout() time.Duration { return c.dialTimeout }
func (c *config) LogLevel() zapcore.Level    { return c.logLevel }
func (c *config) LogDevelopment() bool       { return c.logDevelopment }
func (c *config) PprofEnabled() bool         { return c.pprofEnabled }
func (c *config) PprofPort() string          { return c.pprofPort }

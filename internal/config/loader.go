package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultBufferSize = 8192

type config struct {
	listenPort    string
	targetAddress string

	bufferSize       int
	streaming        bool
	maxUnboundedBody int64
	strictFraming    bool

	idleTimeout time.Duration
	dialTimeout time.Duration

	logLevel       zapcore.Level
	logDevelopment bool

	pprofEnabled bool
	pprofPort    string
}

func parse() (*config, error) {
	listenPort := getenv("LISTEN_PORT", "8080")

	targetAddress := getenv("TARGET_ADDRESS", "localhost:3000")
	if _, _, err := net.SplitHostPort(targetAddress); err != nil {
		return nil, fmt.Errorf("invalid TARGET_ADDRESS: %w", err)
	}

	bufferSize := parseBufferSize()
	streaming := getenvBool("STREAMING", true)
	strictFraming := getenvBool("STRICT_FRAMING", false)

	maxUnboundedBody, err := parseMaxUnboundedBody()
	if err != nil {
		return nil, err
	}

	idleTimeout, err := getenvDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	dialTimeout, err := getenvDuration("DIAL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	logLevel, err := zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logDevelopment := getenvBool("LOG_DEVELOPMENT", false)

	pprofEnabled := getenvBool("PPROF_ENABLED", false)
	pprofPort := getenv("PPROF_PORT", "6060")

	return &config{
		listenPort:       listenPort,
		targetAddress:    targetAddress,
		bufferSize:       bufferSize,
		streaming:        streaming,
		maxUnboundedBody: maxUnboundedBody,
		strictFraming:    strictFraming,
		idleTimeout:      idleTimeout,
		dialTimeout:      dialTimeout,
		logLevel:         logLevel,
		logDevelopment:   logDevelopment,
		pprofEnabled:     pprofEnabled,
		pprofPort:        pprofPort,
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parseBufferSize() int {
	raw := getenv("BUFFER_SIZE", strconv.Itoa(defaultBufferSize))
	size, err := strconv.Atoi(raw)
	if err != nil || size < 4096 || size > 1048576 {
		zap.L().Warn("invalid BUFFER_SIZE, falling back to default",
			zap.String("value", raw), zap.Int("default", defaultBufferSize))
		return defaultBufferSize
	}
	return size
}

func parseMaxUnboundedBody() (int64, error) {
	raw := getenv("MAX_UNBOUNDED_BODY", "0")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid MAX_UNBOUNDED_BODY %q", raw)
	}
	return n, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, val)
	}
	return d, nil
}

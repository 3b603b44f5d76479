package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const LocalReaderPacketSize = "local.reader.packet.size"
const RemoteReaderPacketSize = "remote.reader.packet.size"

var defaults = map[string]string{
	LocalReaderPacketSize:  "8MB",
	RemoteReaderPacketSize: "64KB",
}

// Config resolves property values for one data source. Lookup order is the
// per-source override map, then the process environment, then the compiled
// defaults. The read-only and shared flags travel with the source.
type Config struct {
	readOnly  bool
	shared    bool
	overrides map[string]string
}

func Defaults() *Config {
	return &Config{}
}

func New(readOnly bool, shared bool, overrides map[string]string) *Config {
	return &Config{
		readOnly:  readOnly,
		shared:    shared,
		overrides: overrides,
	}
}

func (config *Config) IsReadOnly() bool {
	return config.readOnly
}

func (config *Config) IsShared() bool {
	return config.shared
}

func (config *Config) ContainsKey(key string) bool {
	if _, ok := config.overrides[key]; ok {
		return true
	}

	if _, ok := os.LookupEnv(envKey(key)); ok {
		return true
	}

	_, ok := defaults[key]

	return ok
}

func (config *Config) GetValue(key string) (string, error) {
	if value, ok := config.overrides[key]; ok {
		return value, nil
	}

	if value, ok := os.LookupEnv(envKey(key)); ok {
		return value, nil
	}

	if value, ok := defaults[key]; ok {
		return value, nil
	}

	return "", fmt.Errorf("property %s is not configured", key)
}

// GetBytes resolves a byte count property such as "64KB" or "8MB".
func (config *Config) GetBytes(key string) (int64, error) {
	value, err := config.GetValue(key)
	if err != nil {
		return 0, err
	}

	bytes, err := parseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", key, err)
	}

	if bytes <= 0 {
		return 0, fmt.Errorf("property %s must be a positive byte count, got %d", key, bytes)
	}

	return bytes, nil
}

// BLOCK_STREAMER_LOCAL_READER_PACKET_SIZE overrides local.reader.packet.size.
func envKey(key string) string {
	mangled := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))

	return "BLOCK_STREAMER_" + mangled
}

var units = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

func parseBytes(value string) (int64, error) {
	trimmed := strings.TrimSpace(strings.ToUpper(value))

	multiplier := int64(1)
	for _, unit := range units {
		if strings.HasSuffix(trimmed, unit.suffix) {
			trimmed = strings.TrimSuffix(trimmed, unit.suffix)
			multiplier = unit.multiplier
			break
		}
	}

	number, err := strconv.ParseInt(strings.TrimSpace(trimmed), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte count %q", value)
	}

	return number * multiplier, nil
}

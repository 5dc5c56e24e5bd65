package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/youthlink/youthlink/internal/flagx"
	"github.com/youthlink/youthlink/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	ProbeAddr      string         `json:"probe_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ToastDuration  timex.Duration `json:"toast_duration"`
	AutoReadDelay  timex.Duration `json:"auto_read_delay"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags; when neither is set no
// JSON is loaded. Read or unmarshal errors panic (caller may recover).
// Empty JSON fields keep the value already in cfg.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.APIBaseURL != "" {
		cfg.APIBaseURL = c.APIBaseURL
	}
	if c.ProbeAddr != "" {
		cfg.ProbeAddr = c.ProbeAddr
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
	if c.ToastDuration.Duration > 0 {
		cfg.ToastDuration = time.Duration(c.ToastDuration.Duration)
	}
	if c.AutoReadDelay.Duration > 0 {
		cfg.AutoReadDelay = time.Duration(c.AutoReadDelay.Duration)
	}
}

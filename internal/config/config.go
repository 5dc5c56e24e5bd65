package config

import "time"

// Config holds runtime settings for the YouthLink client.
type Config struct {
	// APIBaseURL is the base URL of the platform HTTP API.
	APIBaseURL string
	// ProbeAddr is the host:port dialed to decide whether the client is
	// online before attempting a login.
	ProbeAddr string
	// DatabaseDSN locates the local sqlite file holding the session token
	// and the notification collection.
	DatabaseDSN string
	// RequestTimeout bounds individual API calls.
	RequestTimeout time.Duration
	// ToastDuration is how long a notification toast stays visible.
	ToastDuration time.Duration
	// AutoReadDelay is how long unread notifications stay unread before
	// they are marked read automatically.
	AutoReadDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.ProbeAddr = "127.0.0.1:8080"
	c.DatabaseDSN = "file:youthlink.db"
	c.RequestTimeout = 10 * time.Second
	c.ToastDuration = 5 * time.Second
	c.AutoReadDelay = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

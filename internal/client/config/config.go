package config

import (
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/client/admin"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
)

// Transports understood by the CLI.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the saasadmin CLI.
//
// Fields:
//   - Transport: "http" or "grpc".
//   - ServerEndpointAddr: base URL of the HTTP API.
//   - GRPCEndpointAddr: host:port of the gRPC endpoint.
//   - AccessToken: bearer token; prompted for when empty.
//   - AdminEmails: administrator allow-list, checked before any deletion.
//   - RequestTimeout: upper bound for every request.
//   - DuplicateDeletePolicy: "wait" or "reject", see admin.DuplicatePolicy.
type Config struct {
	Transport             string
	ServerEndpointAddr    string
	GRPCEndpointAddr      string
	AccessToken           string
	AdminEmails           []string
	RequestTimeout        time.Duration
	DuplicateDeletePolicy string
	LogBackend            string
	LogLevel              string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Transport = TransportHTTP
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = admin.DefaultTimeout
	c.DuplicateDeletePolicy = string(admin.DuplicateWait)
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "warn"
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

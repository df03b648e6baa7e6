package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/saasadmin/internal/flagx"
	"github.com/dmitrijs2005/saasadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "15s" or as integer nanoseconds.
type JsonConfig struct {
	Transport             string         `json:"transport"`
	ServerEndpointAddr    string         `json:"server_endpoint_addr"`
	GRPCEndpointAddr      string         `json:"grpc_endpoint_addr"`
	AccessToken           string         `json:"access_token"`
	AdminEmails           []string       `json:"admin_emails"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	DuplicateDeletePolicy string         `json:"duplicate_delete_policy"`
	LogBackend            string         `json:"log_backend"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Fields absent from the file keep their current values.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Transport, jc.Transport)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.GRPCEndpointAddr, jc.GRPCEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DuplicateDeletePolicy, jc.DuplicateDeletePolicy)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.AdminEmails != nil {
		cfg.AdminEmails = jc.AdminEmails
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

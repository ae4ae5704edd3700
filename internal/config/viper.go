// Package config names the configuration keys and their defaults, and
// reads them through Viper.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/wdtaxa/pkg/constants"
)

// EnvPrefix prefixes every environment variable, e.g. WDTAXA_USER_AGENT.
const EnvPrefix = "WDTAXA"

// Configuration keys.
const (
	KeyUserAgent         = "user_agent"
	KeyWDQSURL           = "wdqs_url"
	KeyIPNIURL           = "ipni_url"
	KeyGBIFURL           = "gbif_url"
	KeyIndexFungorumURL  = "indexfungorum_url"
	KeyBatchCooldown     = "batch_cooldown"
	KeyHTTPTimeout       = "http_timeout"
	KeyQueryTimeout      = "query_timeout"
	KeyRequestsPerSecond = "requests_per_second"
	KeyCacheTTL          = "cache_ttl"
	KeyOutputDir         = "output_dir"
	KeyMetricsFile       = "metrics_file"
)

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyUserAgent, constants.DefaultUserAgent)
	v.SetDefault(KeyWDQSURL, constants.WDQSURL)
	v.SetDefault(KeyIPNIURL, constants.IPNIURL)
	v.SetDefault(KeyGBIFURL, constants.GBIFURL)
	v.SetDefault(KeyIndexFungorumURL, constants.IndexFungorumURL)
	v.SetDefault(KeyBatchCooldown, constants.DefaultBatchCooldown)
	v.SetDefault(KeyHTTPTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyQueryTimeout, constants.QueryHTTPTimeout)
	v.SetDefault(KeyRequestsPerSecond, 0.0)
	v.SetDefault(KeyCacheTTL, constants.CacheTTL)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyMetricsFile, "")
}

// Bind enables environment lookups on v: WDTAXA_<KEY> for every key.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// GetDuration reads a duration key, returning def when unset or invalid.
func GetDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d := v.GetDuration(key)
	if d < 0 {
		return def
	}
	return d
}

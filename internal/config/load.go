package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults registers every default with v so that keys missing from the
// config file still unmarshal to their default.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("tab_stop", d.TabStop)
	v.SetDefault("wrap_scan", d.WrapScan)
	v.SetDefault("ignore_case", d.IgnoreCase)
	v.SetDefault("highlight", d.Highlight)
	v.SetDefault("source.cache_ttl", d.Source.CacheTTL)
	v.SetDefault("source.watch", d.Source.Watch)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.frame", d.Output.Frame)
	v.SetDefault("output.hex", d.Output.Hex)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

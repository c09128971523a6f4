package guardwatchd

import (
	"maritime-watch/internal/remote"
)

// Config defines the configuration structure for the coast guard daemon
type Config struct {
	Http struct {
		ServerName string `mapstructure:"server_name"`
		Listen     string `mapstructure:"listen"`
		BasicAuth  bool   `mapstructure:"basic_auth"`
		Debug      bool   `mapstructure:"debug"`
		Users      []struct {
			User     string `mapstructure:"user"`
			Password string `mapstructure:"password"`
		} `mapstructure:"users"`
	} `mapstructure:"http"`
	Mirror struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"mirror"`
	Location struct {
		Provider string `mapstructure:"provider"`
		Nmea     struct {
			Addr  string `mapstructure:"addr"`
			Debug bool   `mapstructure:"debug"`
		} `mapstructure:"nmea"`
		Sim struct {
			Lat        float64 `mapstructure:"lat"`
			Lon        float64 `mapstructure:"lon"`
			SpeedMs    float64 `mapstructure:"speed_ms"`
			IntervalMs int     `mapstructure:"interval_ms"`
		} `mapstructure:"sim"`
	} `mapstructure:"location"`
	Remote remote.Config `mapstructure:"remote"`
	Zones  []ZoneConfig  `mapstructure:"zones"`
}

// ZoneConfig is one static geofenced zone definition
type ZoneConfig struct {
	Name    string  `mapstructure:"name"`
	Lat     float64 `mapstructure:"lat"`
	Lon     float64 `mapstructure:"lon"`
	RadiusM float64 `mapstructure:"radius_m"`
	Color   string  `mapstructure:"color"`
}

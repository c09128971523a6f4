package fishersimd

import (
	"maritime-watch/internal/remote"
)

// Config defines the configuration structure for the fisherman daemon
type Config struct {
	Mirror struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"mirror"`
	Location struct {
		Lat        float64 `mapstructure:"lat"`
		Lon        float64 `mapstructure:"lon"`
		SpeedMs    float64 `mapstructure:"speed_ms"`
		IntervalMs int     `mapstructure:"interval_ms"`
		Debug      bool    `mapstructure:"debug"`
	} `mapstructure:"location"`
	Remote  remote.Config `mapstructure:"remote"`
	Vessels []struct {
		Id           string `mapstructure:"id"`
		OperatorName string `mapstructure:"operator_name"`
		Contact      string `mapstructure:"contact"`
	} `mapstructure:"vessels"`
}

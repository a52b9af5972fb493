package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/key"
)

const minPollInterval = 50 * time.Millisecond

// PollInterval is the progress poller cadence, never below 50ms.
func PollInterval() time.Duration {
	d := time.Duration(viper.GetInt(key.PlayerPollInterval)) * time.Millisecond
	if d < minPollInterval {
		return minPollInterval
	}
	return d
}

// RestartThreshold is how far into a track "previous" restarts instead of navigating.
func RestartThreshold() float64 {
	t := viper.GetInt(key.PlayerRestartThreshold)
	if t < 0 {
		return 0
	}
	return float64(t)
}

// DefaultVolume converts the configured percentage to the [0,1] session scale.
func DefaultVolume() float64 {
	v := viper.GetInt(key.PlayerDefaultVolume)
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 1
	default:
		return float64(v) / 100
	}
}

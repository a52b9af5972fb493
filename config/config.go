// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/where"
)

// EnvKeyReplacer normalizes configuration keys into environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads ytfree.toml from the config directory if present.
func Setup() error {
	viper.SetConfigName(constant.Ytfree)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Ytfree)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}

	return nil
}

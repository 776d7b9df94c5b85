// Package config defines the on-disk configuration this toolchain
// reads via viper (SPEC_FULL.md ambient stack), mirroring the shape of
// the teacher repo's own cmd/root.go initConfig: an optional
// ".as-mips.yaml" in the user's home directory or working directory,
// overridable by the CLI's --config flag and by environment variables.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds the settings this toolchain consults beyond what a
// single invocation's flags already specify. §6 states "no environment
// variables consulted" for the core assembler's own behavior; this
// struct exists for the ambient CLI layer only (default output path,
// default verbosity), never for anything that would change the bytes
// of an emitted object file.
type Config struct {
	DefaultOutput string `mapstructure:"default_output"`
	Verbose       bool   `mapstructure:"verbose"`
	Color         bool   `mapstructure:"color"`
}

// Load reads configuration from cfgFile if set, otherwise searches the
// working directory and the user's home directory for ".as-mips.yaml".
// A missing config file is not an error: the defaults set below
// (default_output "./out.elf", verbose false, color true) are returned.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("default_output", "./out.elf")
	v.SetDefault("verbose", false)
	v.SetDefault("color", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".as-mips")
	}
	v.SetEnvPrefix("AS_MIPS")
	v.AutomaticEnv()

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

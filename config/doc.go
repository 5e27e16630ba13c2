// Package config loads service configuration from a YAML file, a .env file
// and the process environment using Viper.
//
// Precedence, lowest first: config.yml, then environment variables (including
// those loaded from .env). Every UPPER_SNAKE environment variable is bound to
// all of its dotted key variants, so SPEECH_AZURE_KEY reaches speech.azure.key.
// Flat names inherited from older deployments can be mapped explicitly with
// WithEnvAliases.
//
//	var cfg MyConfig
//	err := config.LoadConfig("voiceorder", &cfg,
//	    config.WithEnvAliases(map[string]string{"AZURE_SPEECH_KEY": "speech.azure.key"}))
package config

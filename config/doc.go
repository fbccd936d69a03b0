// Package config loads service configuration with Viper.
//
// A config.yml is searched in ./cmd/<service>/, ./config/, the working
// directory and the user config directory. A .env file, when present, is
// loaded into the process environment first. Environment variables prefixed
// with the upper-cased service name override file values, with underscores
// mapped to nesting:
//
//	VOICENOTE_WHISPER_API_KEY=sk-...   ->  whisper.api_key
//	VOICENOTE_LOGGING_LEVEL=debug      ->  logging.level
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.LoadConfig("voicenote", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
package config

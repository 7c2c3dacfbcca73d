// Package config loads linekit host configuration with Viper.
//
// Configuration comes from a YAML file (linekit.yml or config.yml, in the
// working directory or ./config), a .env file loaded with godotenv, and
// LINEKIT_-prefixed environment variables, in increasing precedence.
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile(path))
//	if err != nil {
//	    return err
//	}
//	ctx = env.WithContext(ctx, cfg.EnvContext())
package config

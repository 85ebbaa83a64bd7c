// Package config provides configuration types and loading for the
// gateway.
//
// The configuration is read once at startup and never changes for the
// lifetime of the process. Without a file, DefaultConfig is used: one
// listener on :8080, the backend route and the health endpoint.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("configs/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Values may reference the environment with ${VAR} or ${VAR:-default};
// write $$ for a literal dollar sign.
package config

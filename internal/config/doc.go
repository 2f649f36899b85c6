// Package config loads the service configuration.
//
// Values are resolved in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// Environment variables use the STUDENTPULSE prefix and the section name:
//
//	STUDENTPULSE_SERVER_PORT=8080
//	STUDENTPULSE_LOGGING_LEVEL=debug
//	STUDENTPULSE_ANALYSIS_MAX_UPLOAD_BYTES=5242880
//	STUDENTPULSE_ANALYSIS_THRESHOLDS_TOP_AVERAGE=80
//	STUDENTPULSE_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:8080
//
// The YAML file is taken from STUDENTPULSE_CONFIG when set, otherwise from
// config.yaml or configs/config.yaml in the working directory.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr := fmt.Sprintf(":%d", cfg.Server.Port)
package config

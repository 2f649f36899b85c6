// Package app wires configuration, logging, telemetry, services and HTTP
// handlers into a runnable server.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, optional YAML file, environment)
//	2. Initialize logging and OpenTelemetry
//	3. Create the analytics engine, services and websocket hub
//	4. Build the chi router and HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Run returns after SIGINT or SIGTERM once the server, the hub and the
// telemetry providers have shut down.
package app

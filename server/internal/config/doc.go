// Package config loads the responder server configuration from the `server:`
// section of config.yaml.
//
// Config fields:
//   - HTTPPort         port for the REST API, /metrics and /ws/stream (default 3000)
//   - GRPCPort         port for the gRPC health service (default 50051)
//   - Storage.Path     JSON data file (default questions.json)
//   - Storage.PathEnv  environment variable overriding Storage.Path
//   - Log.Level        debug | info | warn | error (default info)
//   - Stream.Interval  websocket broadcast tick (default 5s)
//   - Health.Interval  how often the data file is probed (default 10s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads the file on change; the server applies
// the new log level live.
package config

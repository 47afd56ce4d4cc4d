// Package config holds the CLI configuration: documented defaults, the
// flat Config struct populated from flags, validation, and the optional
// YAML configuration file.
//
// The Config is passed through the application by dependency injection
// rather than global state. The engine itself takes its tuning directly
// as options; this package only exists for the command-line front end.
package config

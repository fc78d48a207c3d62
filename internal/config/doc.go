// Package config defines the application configuration structure and the
// loading/validation logic that populates it from environment variables
// and optional config files.
package config

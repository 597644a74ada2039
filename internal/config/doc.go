// Package config defines the application configuration structures and the
// loading logic that populates them from the environment. All settings are
// read from CARDGEN_-prefixed environment variables and validated before
// the application starts.
package config

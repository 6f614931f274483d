// Package config loads the admin consumer's configuration: a YAML file
// providing defaults, overridden field-by-field by whichever cobra flags
// the caller actually set. Nothing in this package talks to cobra
// directly — Load takes a plain FlagOverrides struct so pkg/config stays
// testable without spinning up a *cobra.Command.
package config

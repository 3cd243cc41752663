// Package config defines the YAML-loadable mount configuration, in the
// same shape as the ambient configuration layer the rest of this
// component's lineage uses: a plain struct with yaml tags and a single
// LoadFile function, rather than a flag-parsing or env-var framework.
package config

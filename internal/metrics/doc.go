// Package metrics collects Prometheus counters and histograms for every
// operation adapter call, grounded on the same prometheus/client_golang
// registry-per-instance pattern used elsewhere for this kind of
// component: each mount owns its own *prometheus.Registry rather than
// registering into the global default, so multiple mounts in one
// process don't collide on metric names.
package metrics

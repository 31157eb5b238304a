/*
Package observability turns editor lifecycle events into Prometheus metrics and
structured log records.

Both are exposed as domain.LifecycleHooks so they can be merged and handed to
ensureline.WithHooks.
*/
package observability

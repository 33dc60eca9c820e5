// Package testutil contains helpers used across tests to reduce boilerplate
// when exercising agents: a Recorder handler that collects every message it
// is given and lets tests wait for deliveries. It is not intended for
// production usage.
package testutil

// Package notifications delivers curation run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Each event can be
// switched off individually in the [notifications] section.
//
// Callers depend only on the Service interface and pass loosely typed
// payloads, so the CLI can report run outcomes without importing HTTP glue.
package notifications

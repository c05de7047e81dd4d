// Package notifications delivers batch milestones via ntfy.
//
// The ntfy implementation posts plain-text messages to the topic URL from
// config.toml and degrades to a no-op when no topic is configured, so callers
// can notify unconditionally. Delivery failures are returned to the caller,
// which logs them; they never fail a batch.
package notifications

// Package audit records what a run did to the configuration and the mailbox.
//
// The log is stored as JSON Lines next to the configuration document:
//
//	.tatua-audit.jsonl
//
// Each entry carries a UTC timestamp with microseconds, the run ID shared by
// all entries of one process, the operation (migrate, send, verify) and
// operation-specific counts. Credentials and the master password are never
// written.
//
// Audit logging is best-effort. If logging fails the operation continues
// without error. Malformed lines are skipped when reading to tolerate
// partial writes.
package audit

// Package timezone centralizes all time handling for the service.
//
// Wall-clock times (metadata, tokens, logs) live in the configured
// application timezone. Calendar dates for inventory are a separate notion:
// they are normalized to UTC day boundaries via Day/ParseDay so that a
// room-night means the same thing regardless of where the server runs.
package timezone

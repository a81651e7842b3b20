// Package session owns the per-connection working directories under the
// downloads root and the background reaper that reclaims directories older
// than the TTL.
package session

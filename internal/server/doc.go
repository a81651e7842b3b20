// Package server exposes the engine over HTTP: metadata and format lookup
// routes, the archive retrieval route, the transcoder health probe, and the
// WebSocket event channel that drives orchestration runs.
package server

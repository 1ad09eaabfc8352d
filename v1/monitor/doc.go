// Package monitor streams progress events from pipelines and drains to
// external observers over Server-Sent Events or WebSocket. Observation is
// strictly passive: slow observers are skipped, never allowed to back-pressure
// the concurrency core.
package monitor

// Package model defines domain data structures shared across the engine:
// playlist items, encoding variants, status enums, concurrency profiles and
// download sessions. Structures carry the JSON tags used on the wire and
// explicit state transition helpers.
package model

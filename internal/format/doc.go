// Package format implements the default variant selection used when the
// client has not chosen an encoding explicitly. Selection is a pure
// function over the variant list and is fully deterministic.
package format

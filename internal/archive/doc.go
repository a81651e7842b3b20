// Package archive streams a session directory as a single flat zip for the
// final retrieval request.
package archive

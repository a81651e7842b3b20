// Package ytdlp drives the external extraction tool: flag construction for
// the download branches, line-oriented progress scraping of its stdout,
// metadata/format probing via its JSON dump mode, and failure
// classification from its stderr.
package ytdlp

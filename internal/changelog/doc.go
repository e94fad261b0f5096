// Package changelog builds release entries from repository tags and merges
// them into a Markdown changelog without disturbing hand-written content.
//
// A changelog document has three parts:
//   - a free-form header (everything before the first "## " heading),
//   - an "## Unreleased" block, regenerated with placeholder content every run,
//   - release blocks of the form "## [v1.2.3](<repo>/releases/tag/v1.2.3) (date)".
//
// Release blocks already present are kept verbatim and in place; new releases
// are inserted above them, newest first.
package changelog

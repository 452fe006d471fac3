// Package logging builds slog loggers with the repository's console and JSON
// output formats. The console handler colorizes output only when the target
// is a terminal; files and pipes always get plain text.
package logging

// Package logging provides concrete implementations of the csvload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr, styled when stderr is a terminal
//   - FileLogger: Appends timestamped lines to a log file
//   - MultiLogger: Fans every message out to several loggers
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

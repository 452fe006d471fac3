// Package llm wraps an OpenAI-compatible chat completions API for
// include/exclude classification of catalog rows.
//
// Transport failures and rate-limit responses are retried with exponential
// backoff (base * 2^attempt, honoring Retry-After when the server sends one).
// A response that arrives but does not contain a recognizable decision is a
// terminal outcome surfaced as *ParseError; callers record those rows as
// uncertain instead of retrying.
package llm

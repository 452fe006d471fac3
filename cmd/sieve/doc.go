// Command sieve reviews scraped catalog metadata (app stores, repository
// listings) against fixed inclusion criteria by asking an LLM for a
// structured include/exclude decision per row.
package main

// Package types defines the shared data model for note retrieval:
// scored results, cached note vectors, and the request/response contract
// every retrieval provider normalizes into.
package types

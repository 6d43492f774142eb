// Package llm talks to the text-completion collaborator behind quick-add,
// budget suggestions, and the monthly review. Providers are plain HTTP
// clients; responses are validated against a strict JSON contract and
// anything that does not match is returned as a *ParseError.
package llm

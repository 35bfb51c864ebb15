// Package chatsite provides the backend for a portfolio chat assistant.
// It ingests a bounded set of web pages through a shallow same-domain
// crawl, condenses them into fact notes with a language model, and serves
// chat turns and illustrative image lookups over HTTP.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// openai/, mem/).
package chatsite

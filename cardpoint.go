// Package cardpoint extracts store-level reward data from credit card
// program pages. It fetches each configured program page, reduces the HTML
// to prompt-sized text, asks a generative model for structured store
// records, and writes the aggregate as JSON.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, goquery/, sqlite/).
package cardpoint

// Package services talks to hosted backends over HTTP.
//
// # PostgREST
//
// [PostgRESTService] implements [models.Store] against a PostgREST endpoint such as
// Supabase's /rest/v1. Each store operation is one HTTP request:
//   - lookups are GET requests with eq. filters
//   - label upserts are POST with on_conflict=name and Prefer: resolution=merge-duplicates
//   - inserts ask for Prefer: return=representation so the stored id is read back
//   - content reads embed the category name through categories(name)
//
// The API key travels both as the apikey header and as a bearer token supplied by an
// [oauth2.StaticTokenSource]. Requests are throttled by a [rate.Limiter].
//
// # Error Handling
//
// Non-2xx responses become [*APIError], carrying PostgREST's code, message, details
// and hint so callers can surface the most specific text.
package services

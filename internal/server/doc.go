// Package server exposes the content sync core over HTTP.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// [BasicRouter] uses [http.ServeMux] patterns, so routes may carry a method
// ("GET /content/{id}") and path wildcards.
//
// # Handlers
//
// Custom handlers implement [Handler], which adds Routes to [http.Handler] so a
// handler can keep its route table next to its implementation.
//
//   - [ContentHandler] serves the JSON API the admin UI talks to: health, the
//     catalog of selectable options, and content list/get/save/delete.
//   - [PostgRESTProxy] forwards /api/supabase/* to the hosted PostgREST endpoint
//     with the API key attached and CORS headers added, so a browser can reach
//     the hosted backend without holding the key.
//
// Every route from [NewAPIRouter] carries CORS headers and answers OPTIONS
// preflights with 204.
//
// # Errors
//
// Failures are written as {"error": "<message>"}. Invalid input maps to 400,
// a missing item to 404, store failures during save or read to 502 and
// anything else to 500.
package server

// Package api implements the HTTP client core for the catalog backend.
//
// Every outbound request is decorated with the bearer credential read from the
// durable token store. Responses arrive in a uniform envelope; a response with
// success=false is a logical failure carrying the backend's message. An HTTP
// 401 is intercepted: the first failing request triggers a token refresh while
// any requests failing concurrently queue behind it (see refresher), and the
// original request is resubmitted exactly once with the new credential. A
// failed refresh forces session logout through the auth-failure hook.
package api

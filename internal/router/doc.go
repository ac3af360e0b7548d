// Package router maps a request's method and path onto a response.
//
// The first path segment is matched exactly against the registry; the second
// selects the action (`get_status`, `update.js`, `start`, `stop`, `restart`).
// Everything unrecognized is a 404 naming the link, never an error.
package router

// Package slack implements the transport session: a thin Web API client
// for rtm.connect and chat.postMessage, and a Session that turns the RTM
// websocket stream into batches of inbound events for the poll loop.
//
// Outbound posts go through a rate limiter and a circuit breaker; a
// failed post is logged and dropped, never surfaced to handlers.
package slack

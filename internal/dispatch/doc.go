// Package dispatch evaluates inbound text lines against the configured
// trigger bindings and invokes the matching handlers.
//
// Every binding is evaluated on every line - overlapping patterns firing
// together on one message is intentional, not first-match-wins. Handler
// faults are isolated per binding so one failing handler never stops its
// siblings from running on the same line.
package dispatch

// Package queue defines the domain events published to the message broker
// and the RabbitMQ publisher that carries them.
package queue

// Event names recognized by downstream consumers.
const (
	EventUserCreated   = "user_created"
	EventUserLoggedIn  = "user_logged_in"
	EventUserLoggedOut = "user_logged_out"
)

// Envelope is the wire shape of every published event: the event name plus
// a flat string map of attributes.
type Envelope struct {
	Event string            `json:"event"`
	Data  map[string]string `json:"data"`
}

// Package models defines immutable domain value objects decoupled from the Spotify wire format.
//
// Value objects are constructed only by the services mapper and never mutated
// after construction:
//   - [Track], [Artist], [Album] : catalog entities
//   - [Show], [Episode] : podcast entities
//   - [Profile] : the authenticated user
//   - [Page] : one page of any entity with the API-reported total
//
// The [Identifiable] interface lets helpers accept either mapped value objects
// or caller-supplied stand-ins wherever only the Spotify ID matters.
package models

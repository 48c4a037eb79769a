// Package seatmap models the cabin and the in-band seat selection overlay.
//
// The Controller watches the transcript for the seat-selector directive,
// opens the overlay at most once per session, and turns a pick into an
// ordinary chat message.
package seatmap

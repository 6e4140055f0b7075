// Package harmonics locates the natural harmonics of stringed instruments
// relative to the tempered fingered notes of each string.
//
// The pure functions HarmonicsTable, PositionsNearPitch, FingerboardChart
// and NotesChart compose the pitch and acoustic packages. NewService binds
// the same queries to a configuration for the CLI, HTTP server and WASM
// front ends.
package harmonics

// Package persistence keeps the player cache used to select a player by
// name without asking the device for its player list every time.
//
// The cache is a small JSON file stored in the heos-ctl state directory.
package persistence

// Package models defines the persistent data model for the vfit client.
//
// Persistence is local-only: favorites are device-bound snapshots of
// wardrobe items and try-on results, and history entries mirror try-on
// sessions created from this machine so that history remains browsable
// when the backend is unreachable. Account data, wardrobe items, and
// try-on sessions themselves live on the backend and are never stored
// here beyond these snapshots.
//
// Each model implements [Model]; repositories implement [Repository]
// for their concrete type.
package models

// Package content turns raw file bytes into safe, decoded text.
//
// It owns the three content-safety steps every conversion goes through: a
// size ceiling checked before any decoding, encoding resolution (forced or
// auto-detected), and sanitization of control characters and line endings.
// Line truncation of the presented text lives here too, since it must operate
// on decoded runes.
package content

// Package mpdtest provides a scripted in-memory MPD server for tests.
//
// A script is a sequence of exchanges: exact bytes the server expects
// to receive, and bytes it sends in return. Scripts can be written
// inline or loaded from YAML:
//
//	greeting: "OK MPD 0.23.5\n"
//	steps:
//	  - recv: "idle\n"
//	    send: "changed: player\nOK\n"
//	  - recv: "idle\n"
//
// Mismatched or unexpected traffic fails the test.
package mpdtest

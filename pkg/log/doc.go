// Package log is a small wrapper around the standard library logger that
// gives every subsystem a named logger.
//
// Every line carries the level and a "[name>]" prefix:
//
//	2024/01/02 10:00:00.000000 WARN [static>] custom renderer for "hero" failed: ...
//
// Loggers used across blockpress are "render", "static", "markers",
// "storage", "preview", "config" and "hooks".
//
// Basic Usage
//
//	l := log.ForService("render")
//	l.Infof("rendered %d blocks", n)
//	l.Debugf("props: %v", props) // only when debug is enabled
//
// Debug output can be enabled for everything with SetGlobalDebug(true) or
// for one service with EnableDebugFor("static").
//
// Colours
//
// SetColor(true) renders level tags and service names with lipgloss. The
// CLI enables it when stderr is a terminal; tests never do.
//
// Testing
//
// Tests redirect output with SetOutput(&buf) and restore it with
// SetOutput(os.Stderr).
package log

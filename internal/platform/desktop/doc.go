// Package desktop provides the concrete platform backends: robotgo for window
// bounds, activation, screen capture and input injection, gopsutil for
// process lookup, and osascript (JXA) on macOS for the accessibility tree and
// window repositioning.
//
// robotgo requires cgo. When cgo is disabled the package only contains the
// process finder and the pure parsing helpers and registers no provider.
package desktop

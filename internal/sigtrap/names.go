package sigtrap

import "syscall"

// signalNames maps the recognized fatal signals to their symbolic names.
// The set mirrors the signals a hosted C environment is required to
// define; nothing outside it gets a name.
var signalNames = map[syscall.Signal]string{
	syscall.SIGABRT: "SIGABRT",
	syscall.SIGFPE:  "SIGFPE",
	syscall.SIGILL:  "SIGILL",
	syscall.SIGINT:  "SIGINT",
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGTERM: "SIGTERM",
}

// SignalName returns the symbolic name for a recognized signal, or
// "UNKNOWN SIGNAL" for anything outside the fixed set. Unrecognized
// numbers are reported, never treated as an error.
func SignalName(sig syscall.Signal) string {
	if name, recognized := signalNames[sig]; recognized {
		return name
	}
	return "UNKNOWN SIGNAL"
}

// Package harness is a minimal crash-isolating unit test harness for the
// Forth engine's public interface.
//
// Each assertion evaluates inside a guarded window owned by a
// sigtrap.Trap, so an abort-class failure raised by a consistency check
// inside the engine is converted into a recorded test failure instead of
// terminating the whole run.
//
// # Execution model
//
// A Harness is an explicit context value owning the tally, the reporter,
// and the trap; there is no package-level state, so multiple independent
// harness instances can coexist. Execution is strictly single-threaded:
// phases, statements, and assertions run one at a time in program order.
//
// A suite walks a fixed state machine:
//
//	NotStarted --Start()--> Running --End()--> Ended
//
// Between Start and End the suite body executes as an ordered list of
// phases via RunPhases. Three operations advance a phase:
//
//   - Statement: a side-effecting setup action, printed for traceability
//     but deliberately not signal-guarded.
//   - Test: a boolean assertion run inside the guarded window; a caught
//     abort is recorded as a failure and the suite continues.
//   - Must: like Test, but failure is fatal — the run stops immediately
//     and no further assertions are recorded.
//
// # Failure tiers
//
// Recoverable: Test returns false, or its evaluation is interrupted by a
// caught signal; the tally records it and the suite continues. Fatal:
// Must fails, or harness setup itself fails; the suite driver stops the
// run, still prints the summary, and the process exits with a
// distinguished status.
package harness

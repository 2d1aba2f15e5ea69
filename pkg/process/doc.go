// Package process runs the external Java tools (compiler, launcher, archiver).
//
// A [Runner] starts one child process at a time with the parent's standard
// streams attached, so compiler diagnostics and program output appear live.
// The outcome is a [Result]: the exit code, the last lines the child printed
// and how long it ran. Failing to start the program at all (missing binary,
// no execute permission) is also a Result, with ExitCode -1 and Err set; Run
// itself never returns a Go error.
//
// Commands normally execute directly from an argument vector. When the
// project enables platform.use_shell, the vector is quoted into one command
// line and handed to the configured shell prefix (sh -c, cmd /c).
package process

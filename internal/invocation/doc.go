// Package invocation decides how devsetup was started and what "exit" means.
//
// A compiled binary always runs as a child of the user's shell, so it cannot
// mutate that shell's environment. `devsetup shell-init` prints a shell
// function that runs the binary with DEVSETUP_SOURCED=1 and an activation
// file path, then sources whatever statements the binary left in that file
// and returns (never exits) with the binary's status. Inside the binary that
// is the Sourced mode; a plain invocation is Executed mode.
package invocation

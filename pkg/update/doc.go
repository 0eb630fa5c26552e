// Package update decides whether a newly selected kernel release should
// replace the kernel currently configured for WSL.
//
// It does not download, verify or install anything. It compares two
// kversion.Version values and returns a Decision plus a message suitable for
// showing to the user.
//
// Decision model
//   - Without force, only a strictly newer release proceeds.
//   - With force, equal and older releases are installed as well
//     (DecisionReinstall, DecisionDowngrade).
//   - Malformed versions compare equal to everything, so they never trigger
//     an unforced update.
package update

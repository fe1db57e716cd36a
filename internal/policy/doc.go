// Package policy implements the terminal routing decision table.
//
// Given the number of managed terminal sessions and the number of
// companion CLI processes running outside those sessions, Decide returns
// exactly one of five routing strategies. The function is pure and total
// over non-negative integers: it performs no I/O, holds no state, and
// the same inputs always yield the same strategy.
//
// Execution of a strategy (focusing sessions, pasting, prompting) is the
// router package's job; this package only classifies.
package policy

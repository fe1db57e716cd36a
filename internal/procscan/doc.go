// Package procscan counts companion CLI processes running outside any
// managed terminal session.
//
// The scan works from the OS process table: pgrep finds every process
// running the companion command, then the descendants of each managed
// tmux pane are walked (recursive pgrep -P) and subtracted. What
// remains are "external" sessions — companion processes the routing
// policy must not paste over.
//
// Every failure in this package degrades to a zero count. The routing
// table is defined over all non-negative integers including zero, so a
// broken pgrep only makes the tool more conservative, never broken.
package procscan

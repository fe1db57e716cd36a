// Package router orchestrates the copy commands.
//
// A copy runs the same fixed sequence every time: read the active
// selection, build and format the reference, write the clipboard
// unconditionally, then — unless routing is disabled — observe the
// session/process counts, ask the policy package for a strategy, and
// execute it. Nothing is remembered between invocations; every command
// re-derives the world from tmux and the process table.
//
// Auto-pastes are armed as fire-and-forget timers and are never
// cancelled, not even by a second invocation racing the first. Because
// each invocation is a one-shot process rather than a resident editor
// event loop, Wait keeps the process alive until its own timers fire;
// timers armed by different invocations belong to different processes
// and race freely.
package router

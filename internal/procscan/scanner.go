package procscan

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Scanner counts OS processes running the companion command.
type Scanner struct {
	command string
	log     *zap.SugaredLogger

	// run executes a command and returns its stdout. Swappable in
	// tests; defaults to the real binaries.
	run func(ctx context.Context, name string, args ...string) (string, error)
}

// NewScanner creates a Scanner matching processes whose executable name
// equals command.
func NewScanner(command string, log *zap.SugaredLogger) *Scanner {
	return &Scanner{
		command: command,
		log:     log,
		run:     runCmd,
	}
}

// runCmd invokes a binary and returns trimmed stdout.
func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CompanionPIDs returns the PIDs of every process running the companion
// command. pgrep exits non-zero when nothing matches, which is the
// ordinary "no processes" answer, not a failure.
func (s *Scanner) CompanionPIDs(ctx context.Context) []int {
	out, err := s.run(ctx, "pgrep", "-x", s.command)
	if err != nil {
		s.log.Debugw("pgrep found no companion processes", "command", s.command, "error", err)
		return nil
	}
	return parsePIDs(out)
}

// Descendants returns pid plus every process below it, walking
// children breadth-first via pgrep -P. The walk stops quietly at any
// level pgrep cannot answer for; a partial answer only shifts a
// process from "managed" to "external", which the policy treats
// conservatively anyway.
func (s *Scanner) Descendants(ctx context.Context, pid int) []int {
	all := []int{pid}
	frontier := []int{pid}

	for len(frontier) > 0 {
		var next []int
		for _, parent := range frontier {
			out, err := s.run(ctx, "pgrep", "-P", strconv.Itoa(parent))
			if err != nil {
				continue // leaf process, or pgrep unavailable
			}
			children := parsePIDs(out)
			all = append(all, children...)
			next = append(next, children...)
		}
		frontier = next
	}
	return all
}

// CountExternal returns the number of companion processes that do not
// live under any of the managed pane root PIDs. The result is the
// policy's processCount input: clamped at zero, with every failure
// path collapsing to zero per the error taxonomy.
func (s *Scanner) CountExternal(ctx context.Context, managedRoots []int) int {
	companions := s.CompanionPIDs(ctx)
	if len(companions) == 0 {
		return 0
	}

	managed := make(map[int]bool)
	for _, root := range managedRoots {
		for _, pid := range s.Descendants(ctx, root) {
			managed[pid] = true
		}
	}

	count := countOutside(companions, managed)
	s.log.Debugw("companion process scan",
		"command", s.command,
		"total", len(companions),
		"managed", len(companions)-count,
		"external", count)
	return count
}

// HasExternal reports whether at least one external companion process
// exists.
func (s *Scanner) HasExternal(ctx context.Context, managedRoots []int) bool {
	return s.CountExternal(ctx, managedRoots) > 0
}

// parsePIDs converts pgrep output (one PID per line) into ints,
// skipping anything malformed.
func parsePIDs(out string) []int {
	var pids []int
	for _, line := range strings.Split(out, "\n") {
		if pid, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	return pids
}

// countOutside counts PIDs not present in the managed set.
func countOutside(pids []int, managed map[int]bool) int {
	count := 0
	for _, pid := range pids {
		if !managed[pid] {
			count++
		}
	}
	return count
}

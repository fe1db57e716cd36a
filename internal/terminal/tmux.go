package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// enterDelay separates the literal text send from the submitting Enter.
// tmux 3.2+ wraps `send-keys -l` in bracketed paste sequences; without
// the gap the Enter arrives inside the paste buffer and is swallowed.
const enterDelay = 100 * time.Millisecond

// Session is one managed tmux session.
type Session struct {
	// Name is the full tmux session name, including the managed prefix.
	Name string

	// Activity is the unix timestamp of the most recent window activity
	// in the session. Used as the last-focused tie-breaker.
	Activity int64
}

// Manager drives tmux for session discovery, creation, focus, and text
// delivery. It is stateless between calls; every query re-reads the
// live tmux server state.
type Manager struct {
	prefix string
	log    *zap.SugaredLogger

	// run executes a tmux command and returns its stdout. Swappable in
	// tests; defaults to the real binary.
	run func(ctx context.Context, args ...string) (string, error)
}

// NewManager creates a Manager recognizing sessions with the given
// name prefix as managed.
func NewManager(prefix string, log *zap.SugaredLogger) *Manager {
	return &Manager{
		prefix: prefix,
		log:    log,
		run:    runTmux,
	}
}

// runTmux invokes the tmux binary and returns trimmed stdout.
func runTmux(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether a tmux binary exists on PATH. Without one,
// every routing decision degrades to copy-only.
func (m *Manager) Available() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// InsideTmux reports whether the current process already runs inside a
// tmux client. Focusing a session is only possible from inside; from
// outside the best we can offer is an attach hint.
func (m *Manager) InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// IsManaged reports whether a session name follows the managed naming
// convention.
func (m *Manager) IsManaged(name string) bool {
	return strings.HasPrefix(name, m.prefix)
}

// ListManaged returns all managed sessions, attached or detached,
// sorted by name. A tmux failure (no server running, no binary) is a
// normal "zero sessions" outcome, not an error.
func (m *Manager) ListManaged(ctx context.Context) []Session {
	out, err := m.run(ctx, "list-sessions", "-F", "#{session_name}\t#{session_activity}")
	if err != nil {
		// tmux exits non-zero when no server is running. Either way the
		// answer is the same: no managed sessions.
		m.log.Debugw("tmux list-sessions failed, treating as zero sessions", "error", err)
		return nil
	}

	sessions := parseSessionList(out, m.prefix)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })
	return sessions
}

// parseSessionList parses `list-sessions -F "#{session_name}\t#{session_activity}"`
// output, keeping only sessions with the managed prefix. Lines that do
// not match the expected shape are skipped.
func parseSessionList(out, prefix string) []Session {
	var sessions []Session
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if !strings.HasPrefix(parts[0], prefix) {
			continue
		}
		s := Session{Name: parts[0]}
		if len(parts) == 2 {
			if activity, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err == nil {
				s.Activity = activity
			}
		}
		sessions = append(sessions, s)
	}
	return sessions
}

// LastFocused picks the session with the most recent activity. Used as
// the tie-breaker when the caller must act on "the" session and more
// than one candidate exists. Returns false for an empty slice.
func LastFocused(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.Activity > best.Activity {
			best = s
		}
	}
	return best, true
}

// Create starts a new detached managed session rooted at dir. The name
// is the managed prefix plus a timestamp, unique enough for a tool
// whose sessions are created by a human pressing a key.
func (m *Manager) Create(ctx context.Context, dir string) (Session, error) {
	name := m.prefix + time.Now().Format("20060102150405")

	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if _, err := m.run(ctx, args...); err != nil {
		return Session{}, fmt.Errorf("failed to create session %q: %w", name, err)
	}

	m.log.Debugw("created managed session", "session", name, "dir", dir)
	return Session{Name: name, Activity: time.Now().Unix()}, nil
}

// Focus brings a session to the foreground. Inside tmux this switches
// the current client; outside tmux a CLI cannot steal the user's
// foreground terminal, so Focus is a no-op and the caller should show
// the attach hint instead.
func (m *Manager) Focus(ctx context.Context, s Session) error {
	if !m.InsideTmux() {
		m.log.Debugw("not inside tmux, cannot focus session", "session", s.Name)
		return nil
	}
	if _, err := m.run(ctx, "switch-client", "-t", s.Name); err != nil {
		return fmt.Errorf("failed to focus session %q: %w", s.Name, err)
	}
	return nil
}

// AttachHint returns the command a user outside tmux can run to bring
// the session into view.
func (m *Manager) AttachHint(s Session) string {
	return fmt.Sprintf("tmux attach -t %s", s.Name)
}

// SendText delivers text to a session. The text always goes through a
// literal send so tmux never interprets it as key names. With submit
// set, a separate Enter follows after the settle delay; without it the
// text is left sitting on the session's input line.
func (m *Manager) SendText(ctx context.Context, s Session, text string, submit bool) error {
	if _, err := m.run(ctx, "send-keys", "-l", "-t", s.Name, "--", text); err != nil {
		return fmt.Errorf("failed to send text to session %q: %w", s.Name, err)
	}
	if !submit {
		return nil
	}

	time.Sleep(enterDelay)
	if _, err := m.run(ctx, "send-keys", "-t", s.Name, "Enter"); err != nil {
		return fmt.Errorf("failed to submit text to session %q: %w", s.Name, err)
	}
	return nil
}

// PanePIDs returns the root process IDs of every pane in a session.
// The process scanner uses these to separate companion processes living
// inside managed sessions from external ones.
func (m *Manager) PanePIDs(ctx context.Context, s Session) []int {
	out, err := m.run(ctx, "list-panes", "-s", "-t", s.Name, "-F", "#{pane_pid}")
	if err != nil {
		m.log.Debugw("tmux list-panes failed", "session", s.Name, "error", err)
		return nil
	}

	var pids []int
	for _, line := range strings.Split(out, "\n") {
		if pid, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	return pids
}

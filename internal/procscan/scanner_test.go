package procscan

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProcessTable wires a Scanner to an in-memory process tree.
// companions lists the PIDs running the companion command; children
// maps parent PID to child PIDs.
func fakeProcessTable(s *Scanner, companions []int, children map[int][]int) {
	s.run = func(_ context.Context, name string, args ...string) (string, error) {
		switch {
		case name == "pgrep" && args[0] == "-x":
			return joinPIDs(companions)
		case name == "pgrep" && args[0] == "-P":
			parent, _ := strconv.Atoi(args[1])
			return joinPIDs(children[parent])
		default:
			return "", errors.New("unexpected command")
		}
	}
}

func joinPIDs(pids []int) (string, error) {
	if len(pids) == 0 {
		// pgrep exits 1 with no output when nothing matches.
		return "", errors.New("exit status 1")
	}
	out := ""
	for i, pid := range pids {
		if i > 0 {
			out += "\n"
		}
		out += strconv.Itoa(pid)
	}
	return out, nil
}

func newTestScanner() *Scanner {
	return NewScanner("claude", zap.NewNop().Sugar())
}

// TestParsePIDs verifies pgrep output parsing.
func TestParsePIDs(t *testing.T) {
	assert.Equal(t, []int{12, 340, 7}, parsePIDs("12\n340\n7"))
	assert.Equal(t, []int{5}, parsePIDs(" 5 \nnope\n-3\n0"))
	assert.Nil(t, parsePIDs(""))
}

// TestCompanionPIDs_NoMatches confirms pgrep's non-zero exit for "no
// matches" reads as an empty result.
func TestCompanionPIDs_NoMatches(t *testing.T) {
	s := newTestScanner()
	fakeProcessTable(s, nil, nil)

	assert.Empty(t, s.CompanionPIDs(context.Background()))
}

// TestDescendants walks a small process tree.
func TestDescendants(t *testing.T) {
	s := newTestScanner()
	fakeProcessTable(s, nil, map[int][]int{
		100: {200, 201},
		200: {300},
	})

	got := s.Descendants(context.Background(), 100)
	assert.ElementsMatch(t, []int{100, 200, 201, 300}, got)
}

// TestCountExternal covers the managed/external split the routing
// policy depends on.
func TestCountExternal(t *testing.T) {
	ctx := context.Background()

	t.Run("no companions anywhere", func(t *testing.T) {
		s := newTestScanner()
		fakeProcessTable(s, nil, nil)
		assert.Equal(t, 0, s.CountExternal(ctx, []int{100}))
	})

	t.Run("all companions inside managed panes", func(t *testing.T) {
		s := newTestScanner()
		// Pane shell 100 runs companion 200.
		fakeProcessTable(s, []int{200}, map[int][]int{100: {200}})
		assert.Equal(t, 0, s.CountExternal(ctx, []int{100}))
	})

	t.Run("external companion detected", func(t *testing.T) {
		s := newTestScanner()
		// 200 lives under managed pane 100; 900 is a stray terminal.
		fakeProcessTable(s, []int{200, 900}, map[int][]int{100: {200}})
		assert.Equal(t, 1, s.CountExternal(ctx, []int{100}))
	})

	t.Run("no managed panes at all", func(t *testing.T) {
		s := newTestScanner()
		fakeProcessTable(s, []int{900, 901, 902}, nil)
		assert.Equal(t, 3, s.CountExternal(ctx, nil))
	})

	t.Run("deeply nested companion counts as managed", func(t *testing.T) {
		s := newTestScanner()
		// pane shell → wrapper script → companion
		fakeProcessTable(s, []int{300}, map[int][]int{
			100: {200},
			200: {300},
		})
		assert.Equal(t, 0, s.CountExternal(ctx, []int{100}))
	})
}

// TestHasExternal is a thin predicate over CountExternal.
func TestHasExternal(t *testing.T) {
	s := newTestScanner()
	fakeProcessTable(s, []int{900}, nil)
	assert.True(t, s.HasExternal(context.Background(), nil))

	require.Equal(t, 1, s.CountExternal(context.Background(), nil))
}

// TestCountOutside verifies the pure subtraction helper.
func TestCountOutside(t *testing.T) {
	managed := map[int]bool{1: true, 2: true}
	assert.Equal(t, 1, countOutside([]int{1, 2, 3}, managed))
	assert.Equal(t, 0, countOutside([]int{1, 2}, managed))
	assert.Equal(t, 0, countOutside(nil, managed))
	assert.Equal(t, 2, countOutside([]int{8, 9}, map[int]bool{}))
}

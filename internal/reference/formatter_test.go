package reference

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/atref/internal/model"
)

// TestToken_WithoutRange verifies the whole-file token form.
func TestToken_WithoutRange(t *testing.T) {
	tests := []struct {
		path     string
		kind     model.PathKind
		expected string
	}{
		{"/a/b.ts", model.PathAbsolute, "@[/a/b.ts]"},
		{"internal/cli/root.go", model.PathRelative, "@[internal/cli/root.go]"},
		{"README.md", model.PathRelative, "@[README.md]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			path, err := model.NewFilePath(tt.path, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Token(model.NewFileReference(path)))
		})
	}
}

// TestToken_WithRange verifies the line-span token form, including the
// single-line case which collapses to equal start and end rather than
// a bare path.
func TestToken_WithRange(t *testing.T) {
	tests := []struct {
		path       string
		start, end int
		expected   string
	}{
		{"/a/b.ts", 5, 5, "@[/a/b.ts:5:5]"},
		{"/a/b.ts", 1, 120, "@[/a/b.ts:1:120]"},
		{"src/main.go", 33, 48, "@[src/main.go:33:48]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			path, err := model.DetectFilePath(tt.path)
			require.NoError(t, err)
			rng, err := model.NewLineRange(tt.start, tt.end)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, Token(model.NewFileReferenceWithRange(path, rng)))
		})
	}
}

// TestToken_MatchesManualConcatenation pins the format against the
// naive string construction over a grid of valid inputs.
func TestToken_MatchesManualConcatenation(t *testing.T) {
	path, err := model.NewFilePath("/x/y.go", model.PathAbsolute)
	require.NoError(t, err)

	for start := 1; start <= 5; start++ {
		for end := start; end <= start+5; end++ {
			rng, err := model.NewLineRange(start, end)
			require.NoError(t, err)

			expected := "@[" + path.Value() + ":" +
				strconv.Itoa(start) + ":" + strconv.Itoa(end) + "]"
			assert.Equal(t, expected, Token(model.NewFileReferenceWithRange(path, rng)))
		}
	}
}

// TestResolve verifies absolute/relative path resolution against a base
// directory.
func TestResolve(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "home", "me", "proj")

	t.Run("relative input to absolute", func(t *testing.T) {
		p, err := Resolve("internal/cli/root.go", model.PathAbsolute, base)
		require.NoError(t, err)
		assert.Equal(t, model.PathAbsolute, p.Kind())
		assert.Equal(t, filepath.Join(base, "internal", "cli", "root.go"), p.Value())
	})

	t.Run("absolute input to relative", func(t *testing.T) {
		p, err := Resolve(filepath.Join(base, "main.go"), model.PathRelative, base)
		require.NoError(t, err)
		assert.Equal(t, model.PathRelative, p.Kind())
		assert.Equal(t, "main.go", p.Value())
	})

	t.Run("relative input stays relative", func(t *testing.T) {
		p, err := Resolve("a/b.go", model.PathRelative, base)
		require.NoError(t, err)
		assert.Equal(t, model.PathRelative, p.Kind())
		assert.Equal(t, filepath.Join("a", "b.go"), p.Value())
	})

	t.Run("outside base dir uses dotdot", func(t *testing.T) {
		outside := filepath.Join(string(filepath.Separator), "home", "me", "other", "c.go")
		p, err := Resolve(outside, model.PathRelative, base)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("..", "other", "c.go"), p.Value())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := Resolve("", model.PathAbsolute, base)
		assert.Error(t, err)
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		_, err := Resolve("a.go", model.PathKind("weird"), base)
		assert.Error(t, err)
	})
}

// TestBuild verifies the single construction point used by the commands.
func TestBuild(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work")

	t.Run("without range", func(t *testing.T) {
		ref, err := Build("pkg/a.go", nil, model.PathRelative, base)
		require.NoError(t, err)
		assert.False(t, ref.HasRange())
		assert.Equal(t, "@["+filepath.Join("pkg", "a.go")+"]", Token(ref))
	})

	t.Run("with range", func(t *testing.T) {
		rng, err := model.NewLineRange(2, 9)
		require.NoError(t, err)

		ref, err := Build("pkg/a.go", &rng, model.PathAbsolute, base)
		require.NoError(t, err)
		assert.True(t, ref.HasRange())
		assert.Equal(t, "@["+filepath.Join(base, "pkg", "a.go")+":2:9]", Token(ref))
	})
}

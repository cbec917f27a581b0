package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderUntrackedWarning(t *testing.T) {
	out := renderUntrackedWarning([]string{"notes.txt", "scratch.go"}, false)

	assert.Contains(t, out, "untracked files detected")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "scratch.go")
	assert.Contains(t, out, "git add")
}

func TestRenderDraftWrapsLongLines(t *testing.T) {
	long := "feat: something\n\n" + strings.Repeat("word ", 40)
	out := renderDraft(long, 60)

	for _, line := range strings.Split(out, "\n") {
		// Border glyphs are wide but the content must respect the width.
		assert.LessOrEqual(t, len([]rune(line)), 60)
	}
}

func TestWidthForNonTTY(t *testing.T) {
	assert.Equal(t, defaultWidth, widthFor(&bytes.Buffer{}))
}

func TestIsTerminalNonTTY(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))
}

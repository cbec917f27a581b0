package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	devicons "github.com/epilande/go-devicons"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	warnTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	draftBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// iconFileInfo adapts a bare file name to fs.FileInfo for devicons lookup.
type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string       { return i.name }
func (i iconFileInfo) Size() int64        { return 0 }
func (i iconFileInfo) Mode() os.FileMode  { return 0 }
func (i iconFileInfo) ModTime() time.Time { return time.Time{} }
func (i iconFileInfo) IsDir() bool        { return false }
func (i iconFileInfo) Sys() any           { return nil }

func deviconForName(name string) string {
	if name == "" {
		return ""
	}
	return devicons.IconForInfo(iconFileInfo{name: name}).Icon
}

// renderFileList renders file paths one per line, optionally prefixed with
// their devicon.
func renderFileList(files []string, showIcons bool) string {
	var sb strings.Builder
	for _, file := range files {
		if showIcons {
			if icon := deviconForName(file); icon != "" {
				fmt.Fprintf(&sb, "   %s %s\n", icon, fileStyle.Render(file))
				continue
			}
		}
		fmt.Fprintf(&sb, "   %s\n", fileStyle.Render(file))
	}
	return sb.String()
}

// renderUntrackedWarning formats the advisory untracked-files banner.
func renderUntrackedWarning(files []string, showIcons bool) string {
	var sb strings.Builder
	sb.WriteString(warnTitleStyle.Render("Warning: untracked files detected:"))
	sb.WriteString("\n")
	sb.WriteString(renderFileList(files, showIcons))
	sb.WriteString(dimStyle.Render("These files will not be included in the commit. Use 'git add' to track them."))
	sb.WriteString("\n\n")
	return sb.String()
}

// renderDraft renders the generated commit message in a box, body wrapped
// to the terminal width.
func renderDraft(message string, width int) string {
	inner := width - 4 // border and padding
	if inner < 20 {
		inner = 20
	}
	wrapped := wordwrap.String(message, inner)
	return draftBoxStyle.Render(wrapped)
}

// widthFor returns the terminal width of w when it is a TTY, otherwise a
// sane default.
func widthFor(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// isTerminal reports whether r reads from a TTY.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

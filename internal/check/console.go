package check

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Icon is a status marker with an emoji form and a plain-text form.
type Icon struct {
	emoji string
	plain string
}

// Status markers.
var (
	IconOK    = Icon{"✅", "[ OK ]"}
	IconFail  = Icon{"❌", "[FAIL]"}
	IconWarn  = Icon{"⚠️", "[WARN]"}
	IconHint  = Icon{"💡", "[HINT]"}
	IconCrash = Icon{"💥", "[CRASH]"}

	IconSuite   = Icon{"🧪", "==>"}
	IconSearch  = Icon{"🔍", "*"}
	IconInfo    = Icon{"📋", "-"}
	IconRefresh = Icon{"🔄", "*"}
	IconKey     = Icon{"🔑", "-"}
	IconClock   = Icon{"⏰", "-"}
	IconTool    = Icon{"🔧", "*"}
	IconFolder  = Icon{"📁", "*"}
	IconFile    = Icon{"📄", "-"}
	IconDisk    = Icon{"💾", "-"}
	IconLink    = Icon{"🔗", "-"}
	IconUser    = Icon{"👤", "-"}
	IconBuild   = Icon{"🔨", "*"}
	IconClean   = Icon{"🧹", "*"}
	IconOpen    = Icon{"📂", "*"}
	IconChart   = Icon{"📊", "==>"}
	IconTarget  = Icon{"🎯", "==>"}
	IconParty   = Icon{"🎉", "==>"}
	IconRocket  = Icon{"🚀", "==>"}
)

const ruleWidth = 50

// Console writes the diagnostic's human-readable status lines.
type Console struct {
	w     io.Writer
	plain bool
}

// NewConsole returns a Console writing to w. Plain consoles use ASCII markers.
func NewConsole(w io.Writer, plain bool) *Console {
	return &Console{w: w, plain: plain}
}

// NewTerminalConsole returns a Console for f, falling back to plain markers
// when f is not a terminal or forcePlain is set.
func NewTerminalConsole(f *os.File, forcePlain bool) *Console {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return NewConsole(f, forcePlain || !tty)
}

// Plain reports whether the console uses ASCII markers.
func (c *Console) Plain() bool {
	return c.plain
}

// Line prints one status line prefixed with icon.
func (c *Console) Line(icon Icon, format string, args ...any) {
	marker := icon.emoji
	if c.plain {
		marker = icon.plain
	}
	fmt.Fprintf(c.w, "%s %s\n", marker, fmt.Sprintf(format, args...))
}

// Text prints an undecorated line.
func (c *Console) Text(format string, args ...any) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

// Blank prints an empty line.
func (c *Console) Blank() {
	fmt.Fprintln(c.w)
}

// Rule prints a horizontal separator.
func (c *Console) Rule() {
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
}

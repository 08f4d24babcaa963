package utils

import (
	"fmt"
	"strings"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"golang.design/x/clipboard"
)

// Clipboard reads and writes plain text. It prefers the native clipboard and
// falls back to the platform command-line tools (pbcopy, xclip, xsel, clip)
// when native access cannot be initialized.
type Clipboard struct {
	once   sync.Once
	native bool
	err    error
}

// NewClipboard creates a clipboard; initialization happens on first use.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

func (c *Clipboard) init() {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.err = err
			return
		}
		c.native = true
	})
}

// WriteText copies text to the clipboard.
func (c *Clipboard) WriteText(text string) error {
	c.init()
	if c.native {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}

	if atotto.Unsupported {
		return fmt.Errorf("clipboard unavailable: %v", c.err)
	}
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard command failed: %w", err)
	}
	return nil
}

// ReadText returns the clipboard contents as plain text.
func (c *Clipboard) ReadText() (string, error) {
	c.init()
	if c.native {
		return PlainText(string(clipboard.Read(clipboard.FmtText))), nil
	}

	if atotto.Unsupported {
		return "", fmt.Errorf("clipboard unavailable: %v", c.err)
	}
	text, err := atotto.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard command failed: %w", err)
	}
	return PlainText(text), nil
}

// PlainText strips terminal escape sequences and control characters other
// than newlines and tabs, and normalizes line endings.
func PlainText(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r <= 0x9f:
			return -1
		default:
			return r
		}
	}, s)
}

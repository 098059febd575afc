package output

import (
	"bytes"
	"strings"
	"sync"
)

// captureBuffer collects printer output; writes may come from several goroutines.
type captureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *captureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *captureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines splits the output on newlines, ignoring the trailing one.
func (c *captureBuffer) Lines() []string {
	content := strings.TrimSuffix(c.String(), "\n")
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}

func (c *captureBuffer) Len() int {
	return len(c.String())
}

// capture returns everything fn prints through a test-mode printer.
func capture(fn func(*Printer)) string {
	var buffer captureBuffer
	fn(NewPrinter(WithWriter(&buffer), TestMode()))
	return buffer.String()
}

// tagStyles renders every semantic as [semantic]text[/semantic].
type tagStyles struct {
	unavailable bool
}

func (s *tagStyles) GetStyle(semantic string) TextStyle {
	return tagStyle(semantic)
}

func (s *tagStyles) IsAvailable() bool {
	return !s.unavailable
}

type tagStyle string

func (t tagStyle) Render(text ...string) string {
	return "[" + string(t) + "]" + strings.Join(text, " ") + "[/" + string(t) + "]"
}

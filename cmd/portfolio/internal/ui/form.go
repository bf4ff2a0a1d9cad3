package ui

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maxcell/portfolio/pkg/content"
)

// ErrCancelled is returned when the form is closed without submitting
var ErrCancelled = errors.New("post creation cancelled")

// RunNewPostForm asks for the details of a new post, starting from p
func RunNewPostForm(p content.NewPost) (content.NewPost, error) {
	if !IsTerminal() {
		return content.NewPost{}, fmt.Errorf("not running in a terminal, pass --title instead")
	}

	final, err := tea.NewProgram(NewModel(p, time.Now())).Run()
	if err != nil {
		return content.NewPost{}, fmt.Errorf("TUI error: %w", err)
	}

	post, ok := final.(Model).Result()
	if !ok {
		return content.NewPost{}, ErrCancelled
	}
	return post, nil
}

// IsTerminal reports whether stdout is a terminal
func IsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

package utils

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerUtil shows progress for CLI commands on stderr.
type SpinnerUtil struct {
	s *spinner.Spinner
}

// NewSpinnerService creates a new spinner
func NewSpinnerService() *SpinnerUtil {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	return &SpinnerUtil{s: s}
}

// Start begins the spinner with the given message
func (s *SpinnerUtil) Start(message string) {
	s.s.Suffix = " " + message
	s.s.Start()
}

// Success stops the spinner and displays a success message
func (s *SpinnerUtil) Success(message string) {
	s.s.FinalMSG = "✓ " + message + "\n"
	s.s.Stop()
}

// Error stops the spinner and displays an error message
func (s *SpinnerUtil) Error(message string) {
	s.s.FinalMSG = "✗ " + message + "\n"
	s.s.Stop()
}

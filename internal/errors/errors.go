package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/sutrr/internal/logger"
)

// Error taxonomy shared by the repositories, the engine and the UIs.
var (
	// ErrEmptyInput is returned when submitted text is empty after trimming
	ErrEmptyInput = stderrors.New("text cannot be empty")
	// ErrEmptyTitle is returned when a conversation rename is blank
	ErrEmptyTitle = stderrors.New("title cannot be empty")
	// ErrNotFound is returned when an id no longer refers to a stored entity
	ErrNotFound = stderrors.New("not found")
	// ErrStorageRead marks stored data that could not be decoded
	ErrStorageRead = stderrors.New("stored data is unreadable")
	// ErrStorageWrite marks a failed write to the local store
	ErrStorageWrite = stderrors.New("could not save to local storage")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Notice turns an error into the short, non-blocking text shown to the user.
// Returns "" for errors that should stay silent.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrStorageRead):
		// Unreadable data already fell back to defaults
		return ""
	case stderrors.Is(err, ErrStorageWrite):
		return "Couldn't save your latest change on this device. It is kept for this session only."
	case stderrors.Is(err, ErrEmptyInput):
		return "Please write something first."
	case stderrors.Is(err, ErrEmptyTitle):
		return "Title cannot be empty."
	case stderrors.Is(err, ErrNotFound):
		return "That item no longer exists."
	default:
		return err.Error()
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Title   string
	Message string
	Action  func() tea.Cmd
	// Cancel runs when the dialog is declined or dismissed
	Cancel func()
	// ReturnTo is the state restored once the dialog closes
	ReturnTo SessionState
}

const (
	AppName            = "sutrr"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/sutrr/sutrr.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "sutrr-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "sutrr-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.sutrr"
	TrayAppExecutable      = "sutrr-tray"

	// Environment variables
	EnvConfig       = "SUTRR_CONFIG"
	EnvDebug        = "SUTRR_DEBUG"
	EnvReplyDelay   = "SUTRR_REPLY_DELAY"
	EnvDBConnection = "SUTRR_DB_CONNECTION"
	EnvLogLevel     = "SUTRR_LOG_LEVEL"
	EnvLogJSON      = "SUTRR_LOG_JSON"
)

// Session States
const (
	StateChatList SessionState = iota
	StateChat
	StateJournal
	StateCheckins
	StateJournalWrite
	StateJournalDetail
	StateJournalEdit
	StateRename
	StateCheckinLog
	StateConfirmation
)

package core

// error_messages.go defines user-friendly error messages with codes for support
// reference. Operators quote the code when a run fails.
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - Input missing: The input file could not be opened
//	          Action: Check BASE_PATH / SEARCH_PATH point to existing files
//	          Patterns: "no such file", "file does not exist", "cannot find the file"
//
//	LOAD002 - Missing columns: The file lacks required columns
//	          Action: Compare the header row with the expected layout
//	          Patterns: "missing required columns"
//
//	LOAD003 - Unsupported format: The file is neither .csv nor .xlsx
//	          Action: Export the sheet as .xlsx or .csv
//	          Patterns: "unsupported file format"
//
//	LOAD004 - Empty or corrupt file: No header row could be read
//	          Action: Open the file in a spreadsheet program and re-save it
//	          Patterns: "empty file", "zip: not a valid zip file", "parse error"
//
// # Date Errors (DATE001)
//
//	DATE001 - Unparseable date: A date cell could not be read
//	          Action: None required; the row ranks last among duplicates
//	          Patterns: "unparseable date"
//
// # Write Errors (WRITE001-WRITE099)
//
//	WRITE001 - Permission denied: The output location is not writable
//	           Action: Close the file if it is open in Excel, check permissions
//	           Patterns: "permission denied"
//
//	WRITE002 - Output failed: An output table could not be saved
//	           Action: Check free disk space and the output directory
//	           Patterns: "write "
//
// # History and Upload Errors (HIST001-HIST002, UPL001, BUSY001)
//
//	HIST001 - History disabled: No database is configured
//	          Action: Set DATABASE_URL and restart
//	          Patterns: "run history is disabled"
//
//	HIST002 - Run not found: No run has the requested ID
//	          Action: List runs to find a valid ID
//	          Patterns: "run not found"
//
//	UPL001 - Upload too large: The request exceeds UPLOAD_MAX_FILE_SIZE
//	         Action: Split the input or raise the limit
//	         Patterns: "request body too large"
//
//	BUSY001 - Server busy: Every reconciliation slot stayed occupied
//	          Action: Retry after the Retry-After delay
//	          Patterns: "too many concurrent"
//
// # Configuration (CFG001)
//
//	CFG001 - Invalid configuration
//	         Action: Fix the environment variables listed in the message
//	         Patterns: "config validation", "config load"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the logs for the technical error
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns precede general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What went wrong
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Load Errors (LOAD001-LOAD004)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check BASE_PATH and SEARCH_PATH point to existing files",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check BASE_PATH and SEARCH_PATH point to existing files",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "cannot find the file",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check BASE_PATH and SEARCH_PATH point to existing files",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required columns are missing from the input file",
			Action:  "Compare the header row with the expected column layout",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File format is not supported",
			Action:  "Export the sheet as .xlsx or .csv",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The input file is empty",
			Action:  "Make sure the first row holds the column headers",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The spreadsheet is corrupt",
			Action:  "Open the file in a spreadsheet program and re-save it",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The CSV file is malformed",
			Action:  "Check for unbalanced quotes in the file",
			Code:    "LOAD004",
		},
	},

	// =========================================================================
	// Date Errors (DATE001)
	// =========================================================================
	{
		pattern: "unparseable date",
		msg: UserMessage{
			Message: "A date could not be read",
			Action:  "No action required; the row ranks last among duplicates",
			Code:    "DATE001",
		},
	},

	// =========================================================================
	// Configuration (CFG001)
	// =========================================================================
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Fix the environment variables listed in the message",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config load",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Fix the environment variables listed in the message",
			Code:    "CFG001",
		},
	},

	// =========================================================================
	// History and Upload Errors (HIST001-HIST002, UPL001, BUSY001)
	// =========================================================================
	{
		pattern: "run history is disabled",
		msg: UserMessage{
			Message: "Run history is not enabled",
			Action:  "Set DATABASE_URL and restart",
			Code:    "HIST001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "No run with that ID",
			Action:  "List runs to find a valid ID",
			Code:    "HIST002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload is too large",
			Action:  "Split the input or raise UPLOAD_MAX_FILE_SIZE",
			Code:    "UPL001",
		},
	},

	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "The server is busy",
			Action:  "Retry in a few seconds",
			Code:    "BUSY001",
		},
	},

	// =========================================================================
	// Write Errors (WRITE001-WRITE002)
	// =========================================================================
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The output location is not writable",
			Action:  "Close the file if it is open in Excel and check permissions",
			Code:    "WRITE001",
		},
	},
	{
		pattern: "write ",
		msg: UserMessage{
			Message: "An output table could not be saved",
			Action:  "Check free disk space and the output directory",
			Code:    "WRITE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	// Write failures can carry "no such file" from a missing output
	// directory; they must not be reported as a missing input.
	var we *WriteError
	if errors.As(err, &we) {
		for _, ep := range errorPatterns {
			if strings.HasPrefix(ep.msg.Code, "WRITE") && strings.Contains(errStr, ep.pattern) {
				return ep.msg
			}
		}
	}

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

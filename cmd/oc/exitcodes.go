package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing token, invalid config)
	ExitDataError   = 3 // Data error (unreadable file, no entries, no DOI found)
	ExitNotFound    = 4 // Lookup target not found in the provider
)

package main

// Exit codes returned by the bibclean CLI.
const (
	ExitSuccess     = 0 // Success (warnings allowed)
	ExitError       = 1 // General error (invalid arguments, write failure)
	ExitConfigError = 2 // Configuration error (bad config, unreadable table)
	ExitDataError   = 3 // Data error (malformed .bib or reference table)
)

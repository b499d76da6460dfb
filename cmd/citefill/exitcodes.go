package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure, interrupted)
	ExitConfigError = 2 // Configuration error (missing or rejected API key, invalid settings)
	ExitDataError   = 3 // Data error (unreadable document, malformed BibTeX, unknown arXiv ID)
	ExitAPIError    = 4 // External API error (rate limit, network) for single-shot commands
)

// Package logger provides structured logging and the pipeline event journal
// for docharvest.
//
// Logger wraps zerolog behind a small interface with field chaining:
//
//	cfg := &config.LoggingConfig{Level: "info", File: "logs/docharvest.log"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("page_number", 2).Info("Analyzing page")
//
// EventLog is the journal of named pipeline events (INVOICE_PARSING_STARTED,
// PAGE_PROCESSING, SCROLL_MORE, ...). Each event is appended as one JSON
// object per line with "event" and "ts" keys and mirrored to the console:
//
//	events, err := logger.NewEventLog("logs/events.jsonl", logger.GetLogger())
//	if err != nil {
//	    return err
//	}
//	defer events.Close()
//	events.Event("PAGE_PROCESSING", map[string]interface{}{"page_number": 1})
//
// Event severity follows the name: *_FAILED is an error, WARN_* and
// *_WARNING are warnings, everything else is info.
//
// TestLogger and EventRecorder capture output in memory for tests.
package logger

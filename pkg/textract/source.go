package textract

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"docharvest/pkg/cache"
	"docharvest/pkg/document"
	errs "docharvest/pkg/errors"
	"docharvest/pkg/logger"
	"docharvest/pkg/retry"
)

// EventPageFetched is emitted once per page handed to the parser
const EventPageFetched = "PAGE_FETCHED"

// DefaultJSONPattern names saved responses replayed by JSONSource
const DefaultJSONPattern = "page_{i}.json"

// PagePath substitutes the 1-based page number for {i} in pattern
func PagePath(pattern string, page int) string {
	return strings.ReplaceAll(pattern, "{i}", strconv.Itoa(page))
}

// FileSource analyzes one image file per page
type FileSource struct {
	client  *Client
	pattern string
	cache   *cache.Store
	events  logger.EventSink
	logger  logger.Logger
}

// NewFileSource reads pages from files named by pattern. A nil store
// disables response caching.
func NewFileSource(client *Client, pattern string, store *cache.Store) *FileSource {
	return &FileSource{
		client:  client,
		pattern: pattern,
		cache:   store,
		events:  logger.NopEvents(),
		logger:  logger.GetLogger(),
	}
}

// WithEvents sets the sink receiving PAGE_FETCHED events
func (s *FileSource) WithEvents(sink logger.EventSink) *FileSource {
	if sink != nil {
		s.events = sink
	}
	return s
}

// FetchPage reads the page file, answers from the cache when possible and
// otherwise calls the analysis service. Every failure is a *errors.FetchError.
func (s *FileSource) FetchPage(ctx context.Context, page int) (document.Page, error) {
	path := PagePath(s.pattern, page)

	content, err := os.ReadFile(path)
	if err != nil {
		t := errs.ErrorTypeInvalidInput
		if os.IsNotExist(err) {
			t = errs.ErrorTypeNotFound
		}
		return document.Page{}, &errs.FetchError{
			Page: page,
			Err:  errs.New(t, fmt.Sprintf("cannot read %s", path), err),
		}
	}

	key := cache.Key(content, s.client.Features()...)
	if s.cache != nil {
		entry, err := s.cache.Load(key)
		if err != nil {
			s.logger.WarnWithFields("ignoring unreadable cache entry", map[string]interface{}{
				"page_number": page,
				"error":       err.Error(),
			})
		}
		if entry != nil {
			s.fetched(page, path, len(entry.Page.Blocks), true)
			return entry.Page, nil
		}
	}

	result, err := s.client.Analyze(ctx, content)
	if err != nil {
		return document.Page{}, &errs.FetchError{
			Page:     page,
			Attempts: retry.AttemptsOf(err),
			Err:      err,
		}
	}

	if s.cache != nil {
		if err := s.cache.Save(key, path, result); err != nil {
			s.logger.WarnWithFields("failed to cache analysis", map[string]interface{}{
				"page_number": page,
				"error":       err.Error(),
			})
		}
	}

	s.fetched(page, path, len(result.Blocks), false)
	return result, nil
}

func (s *FileSource) fetched(page int, path string, blocks int, cached bool) {
	s.events.Event(EventPageFetched, map[string]interface{}{
		"page_number": page,
		"source":      path,
		"blocks":      blocks,
		"cached":      cached,
	})
}

// JSONSource replays analysis responses saved as JSON files
type JSONSource struct {
	pattern string
}

// NewJSONSource reads responses from files named by pattern; an empty
// pattern selects page_{i}.json
func NewJSONSource(pattern string) *JSONSource {
	if pattern == "" {
		pattern = DefaultJSONPattern
	}
	return &JSONSource{pattern: pattern}
}

// FetchPage loads the saved response for page
func (s *JSONSource) FetchPage(ctx context.Context, page int) (document.Page, error) {
	path := PagePath(s.pattern, page)
	result, err := document.LoadPage(path)
	if err != nil {
		t := errs.ErrorTypeParsing
		if os.IsNotExist(err) {
			t = errs.ErrorTypeNotFound
		}
		return document.Page{}, &errs.FetchError{
			Page: page,
			Err:  errs.New(t, fmt.Sprintf("cannot load %s", path), err),
		}
	}
	return result, nil
}

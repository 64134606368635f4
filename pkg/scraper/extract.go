package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	errs "docharvest/pkg/errors"
	"docharvest/pkg/models"
)

// Selectors used inside a post element
const (
	AuthorSelector      = "span.update-components-actor__title span[aria-hidden='true']"
	DateSelector        = "span.update-components-actor__sub-description span[aria-hidden='true']"
	UpdateSelector      = "div.feed-shared-update-v2"
	DescriptionSelector = "div.feed-shared-update-v2__description"
	ReactionsSelector   = "span.social-details-social-counts__reactions-count"
	CommentsSelector    = "li.social-details-social-counts__comments span"
)

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	linkPattern    = regexp.MustCompile(`https?://\S+`)
	digitsPattern  = regexp.MustCompile(`\d+`)
)

// ExtractHashtags returns every #tag in text in order of appearance
func ExtractHashtags(text string) []string {
	tags := hashtagPattern.FindAllString(text, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// ExtractLinks returns every http(s) URL in text, up to the next whitespace
func ExtractLinks(text string) []string {
	links := linkPattern.FindAllString(text, -1)
	if links == nil {
		return []string{}
	}
	return links
}

// ParsePost extracts a Post from the outer HTML of a post element. idx is the
// element's position on the page and becomes the post id when the markup
// carries no update container. A date that cannot be normalized is reported
// as a warning and leaves PostedAt nil.
func ParsePost(html string, idx int, now time.Time) (models.Post, []errs.Warning, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Post{}, nil, fmt.Errorf("parse post markup: %w", err)
	}

	post := models.Post{
		PostID:     int64(idx),
		AuthorName: firstText(doc.Selection, AuthorSelector),
	}

	var warnings []errs.Warning
	rawDate := firstText(doc.Selection, DateSelector)
	posted, err := NormalizeDate(rawDate, now)
	if err != nil {
		warnings = append(warnings, errs.Warning{
			Type:    errs.WarningDateParse,
			Subject: rawDate,
			Message: err.Error(),
		})
	}
	post.PostedAt = posted

	if update := doc.Find(UpdateSelector).First(); update.Length() > 0 {
		post.Text = strings.TrimSpace(doc.Find(DescriptionSelector).First().Text())
		id, err := postID(update)
		if err != nil {
			return models.Post{}, warnings, err
		}
		post.PostID = id
	}

	post.Hashtags = ExtractHashtags(post.Text)
	post.Links = ExtractLinks(post.Text)
	post.ReactionsCount = reactions(doc.Selection)
	post.CommentsCount = firstNumber(firstText(doc.Selection, CommentsSelector))

	return post, warnings, nil
}

// postID reads the numeric suffix of the container's data-urn attribute,
// e.g. "urn:li:activity:7123". A container without the attribute yields 0.
func postID(update *goquery.Selection) (int64, error) {
	urn, ok := update.Attr("data-urn")
	if !ok || urn == "" {
		return 0, nil
	}
	suffix := urn[strings.LastIndex(urn, ":")+1:]
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid data-urn %q: %w", urn, err)
	}
	return id, nil
}

func reactions(s *goquery.Selection) int {
	text := strings.ReplaceAll(firstText(s, ReactionsSelector), ",", "")
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

func firstNumber(text string) int {
	m := digitsPattern.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func firstText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

package models

import "time"

// PostsReport is the document written by a scrape run
type PostsReport struct {
	ProfileURL string `json:"profile_url"`
	FetchedAt  string `json:"fetched_at"`
	TotalPosts int    `json:"total_posts"`
	Posts      []Post `json:"posts"`
}

// Post is one feed entry of a profile
type Post struct {
	PostID         int64    `json:"post_id"`
	AuthorName     string   `json:"author_name"`
	PostedAt       *string  `json:"posted_at"`
	Text           string   `json:"text"`
	Hashtags       []string `json:"hashtags"`
	Links          []string `json:"links"`
	ReactionsCount int      `json:"reactions_count"`
	CommentsCount  int      `json:"comments_count"`
}

// NewPostsReport builds a report stamped with fetchedAt in UTC
func NewPostsReport(profileURL string, posts []Post, fetchedAt time.Time) *PostsReport {
	if posts == nil {
		posts = []Post{}
	}
	return &PostsReport{
		ProfileURL: profileURL,
		FetchedAt:  fetchedAt.UTC().Format(time.RFC3339),
		TotalPosts: len(posts),
		Posts:      posts,
	}
}

// Count returns the number of posts
func (r *PostsReport) Count() int { return len(r.Posts) }

// Package model defines the data structures used in the newsApp application: Source, Article and Page. Articles come from the news API and are stored locally when bookmarked; a Page is one raw response of the remote feed.
package model

// Source is the publication an article originates from.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is identified by its URL. An empty Author means the feed did not
// report one.
type Article struct {
	Author      string `json:"author"`
	Content     string `json:"content"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Source      Source `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
}

// Page is one network response unit: raw (not deduplicated) articles, the
// server status and the total number of results the server reports.
type Page struct {
	Articles     []Article `json:"articles"`
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
}

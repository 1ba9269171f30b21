// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EncyclopediaPayload is the data of a successful encyclopedia search: the
// best-matching article plus the top search hits.
type EncyclopediaPayload struct {
	Title   string `json:"title" yaml:"title"`
	Extract string `json:"extract" yaml:"extract"`
	URL     string `json:"url" yaml:"url"`

	// ImageURL prefers the original image and falls back to the thumbnail.
	ImageURL     *string `json:"imageUrl" yaml:"image_url"`
	ThumbnailURL *string `json:"thumbnailUrl" yaml:"thumbnail_url"`

	PageID         int             `json:"pageId" yaml:"page_id"`
	RelatedResults []RelatedResult `json:"relatedResults" yaml:"related_results"`
}

func (*EncyclopediaPayload) payload() {}

// RelatedResult is one encyclopedia search hit with markup removed from its snippet.
type RelatedResult struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	PageID  int    `json:"pageId" yaml:"page_id"`
}

// PapersPayload is the data of a successful papers search.
type PapersPayload struct {
	// TotalResults counts the emitted papers, not the raw feed entries.
	TotalResults int     `json:"totalResults" yaml:"total_results"`
	Papers       []Paper `json:"papers" yaml:"papers"`
}

func (*PapersPayload) payload() {}

// Paper is one preprint parsed from the papers feed.
type Paper struct {
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors" yaml:"authors"`
	Summary   string   `json:"summary" yaml:"summary"`
	Published string   `json:"published" yaml:"published"`
	Updated   string   `json:"updated" yaml:"updated"`
	PDFLink   string   `json:"pdfLink" yaml:"pdf_link"`
	URL       string   `json:"url" yaml:"url"`
}

// NewsPayload is the data of a successful news search or headlines call.
type NewsPayload struct {
	TotalResults int       `json:"totalResults" yaml:"total_results"`
	Articles     []Article `json:"articles" yaml:"articles"`
}

func (*NewsPayload) payload() {}

// Article is one normalized news article. ImageURL and PublishedAt stay nil
// when the provider omits them.
type Article struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Content     string        `json:"content" yaml:"content"`
	URL         string        `json:"url" yaml:"url"`
	ImageURL    *string       `json:"imageUrl" yaml:"image_url"`
	PublishedAt *string       `json:"publishedAt" yaml:"published_at"`
	Source      ArticleSource `json:"source" yaml:"source"`
}

// ArticleSource names the outlet that published an article.
type ArticleSource struct {
	Name string  `json:"name" yaml:"name"`
	ID   *string `json:"id" yaml:"id"`
}

package model

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Kinds of content eligible for schema generation.
const (
	ContentKindPost = "post"
	ContentKindPage = "page"
)

// Content is the editorial record schema generation runs against. The body is
// raw HTML as authored; adapters and the builder strip or subset it as needed.
type Content struct {
	ID             int64
	Kind           string
	Title          string
	Body           string
	Excerpt        string
	Permalink      string
	AuthorName     string
	AuthorURL      string
	AuthorImageURL string
	ImageURL       string
	Language       string
	PublishedAt    time.Time
	ModifiedAt     time.Time
}

// Hash fingerprints the fields that affect generated schema. A job for the
// same (content, hash) pair already pending or running makes Enqueue a no-op.
func (c *Content) Hash() string {
	sum := md5.Sum([]byte(c.Title + "||" + c.Body + "||" + c.ModifiedAt.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])
}

func (c *Content) SupportedKind() bool {
	return c.Kind == ContentKindPost || c.Kind == ContentKindPage
}

// ContentMeta carries per-content generation state: the hash of the last
// successfully processed revision, operator overrides, and the last failure.
type ContentMeta struct {
	ContentID          int64
	ContentHash        string
	ForcedType         string
	ForcedReviewedType string
	LastError          string
}

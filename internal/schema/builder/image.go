package builder

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"schema-ai-service/internal/domain/model"
)

var reImgSrc = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

var allowedImageHosts = map[string]struct{}{
	"upload.wikimedia.org":  {},
	"commons.wikimedia.org": {},
}

var allowedImageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {},
}

// allowedImageURL admits http(s) JPEG/PNG/WebP images hosted on the site
// itself or on the wikimedia CDNs.
func (b *Builder) allowedImageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if _, ok := allowedImageExts[ext]; !ok {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == b.siteHost {
		return true
	}
	_, ok := allowedImageHosts[host]
	return ok
}

// resolveImage picks the primary image: the featured image first, then the
// first allowed <img> in the body, then any candidate the classifier offered.
func (b *Builder) resolveImage(c *model.Content, d *model.Details) string {
	if c.ImageURL != "" && b.allowedImageURL(c.ImageURL) {
		return c.ImageURL
	}
	for _, m := range reImgSrc.FindAllStringSubmatch(c.Body, -1) {
		if b.allowedImageURL(m[1]) {
			return m[1]
		}
	}
	for _, cand := range detailImageCandidates(d) {
		if b.allowedImageURL(cand) {
			return cand
		}
	}
	return ""
}

func detailImageCandidates(d *model.Details) []string {
	cands := []string{d.Image}
	if d.Product != nil {
		cands = append(cands, d.Product.Image)
	}
	if d.Video != nil {
		cands = append(cands, d.Video.Thumbnail)
	}
	if d.Hotel != nil {
		cands = append(cands, d.Hotel.Image)
	}
	if d.Lounge != nil {
		cands = append(cands, d.Lounge.Image)
	}
	if d.Restaurant != nil {
		cands = append(cands, d.Restaurant.Image)
	}
	out := cands[:0]
	for _, c := range cands {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

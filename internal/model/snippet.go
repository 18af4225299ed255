package model

import (
	"strconv"
	"strings"
)

// Snippet represents a row of the trip_snippet table. Each snippet belongs
// to exactly one page and is rendered individually through the snippet
// template before being concatenated into the page body in snippet id order.
//
// Active holds the raw flag text as stored; use IsActive for the
// interpreted value.
type Snippet struct {
	ID            int64
	PageID        int64
	Code          string
	RequestDesc   string
	Destination   string
	Image         string
	ImageTitle    string
	Tagline1      string
	Tagline2      string
	Price         string
	Title         string
	ShortDesc     string
	Description   string
	InclusionHTML string
	Active        string
}

// IsActive reports whether the snippet should appear in generated output.
// The flag must parse as an integer and be non-zero; an absent, empty or
// non-integer value means inactive.
func (s *Snippet) IsActive() bool {
	v := strings.TrimSpace(s.Active)
	if v == "" {
		return false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	return n != 0
}

// FieldMap returns the placeholder mapping used to render this snippet.
// Keys match the underlying column names.
func (s *Snippet) FieldMap() map[string]any {
	return map[string]any{
		"snippet_id":    s.ID,
		"page_id":       s.PageID,
		"code":          s.Code,
		"request_desc":  s.RequestDesc,
		"destination":   s.Destination,
		"image":         s.Image,
		"imagetitle":    s.ImageTitle,
		"tagline1":      s.Tagline1,
		"tagline2":      s.Tagline2,
		"price":         s.Price,
		"title":         s.Title,
		"shortdesc":     s.ShortDesc,
		"description":   s.Description,
		"inclusionhtml": s.InclusionHTML,
		"active":        s.Active,
	}
}

package domain

import "strings"

// ContentType tags the editorial kind of a content item. The set is closed;
// versions carry the tag opaquely after validation.
type ContentType string

const (
	ContentTypeBlogPost    ContentType = "blog_post"
	ContentTypeArticle     ContentType = "article"
	ContentTypeSocialPost  ContentType = "social_post"
	ContentTypeEmail       ContentType = "email_campaign"
	ContentTypeLandingPage ContentType = "landing_page"
	ContentTypeNewsletter  ContentType = "newsletter"
	ContentTypeVideoScript ContentType = "video_script"
)

// Valid reports whether the content type belongs to the closed set.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeBlogPost, ContentTypeArticle, ContentTypeSocialPost,
		ContentTypeEmail, ContentTypeLandingPage, ContentTypeNewsletter,
		ContentTypeVideoScript:
		return true
	default:
		return false
	}
}

// ContentFormat tags the serialization of a version payload.
type ContentFormat string

const (
	ContentFormatMarkdown  ContentFormat = "markdown"
	ContentFormatHTML      ContentFormat = "html"
	ContentFormatPlainText ContentFormat = "plain_text"
	ContentFormatJSON      ContentFormat = "json"
)

// Valid reports whether the content format belongs to the closed set.
func (f ContentFormat) Valid() bool {
	switch f {
	case ContentFormatMarkdown, ContentFormatHTML, ContentFormatPlainText, ContentFormatJSON:
		return true
	default:
		return false
	}
}

// Platform tags the distribution target a branch is prepared for.
type Platform string

const (
	PlatformWebsite   Platform = "website"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformEmail     Platform = "email"
)

// Valid reports whether the platform belongs to the closed set.
func (p Platform) Valid() bool {
	switch p {
	case PlatformWebsite, PlatformTwitter, PlatformLinkedIn,
		PlatformFacebook, PlatformInstagram, PlatformEmail:
		return true
	default:
		return false
	}
}

// NormalizeTag lowercases and trims registry tags before validation.
func NormalizeTag(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

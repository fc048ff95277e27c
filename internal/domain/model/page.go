package model

// PageSpec describes a page the deployer must make exist in the content store.
// Body is opaque markup; the deployer never inspects it.
type PageSpec struct {
	Title string
	Slug  string
	Body  string
}

// Page is a page as persisted by the content store.
type Page struct {
	ID     int64
	Slug   string // Natural key used for upsert matching.
	Title  string
	Body   string
	Status PageStatus
	Link   string // Permalink, when the store knows it.
}

// IsPublished reports whether the page is publicly visible.
func (p Page) IsPublished() bool {
	return p.Status == PageStatusPublish
}

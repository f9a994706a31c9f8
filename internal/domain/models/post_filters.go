package model

// PostFilters is the storage-level filter; all set fields are combined with AND.
type PostFilters struct {
	AuthorID *int64
	GroupID  *int64
	Limit    *int
	Offset   *int
}

// PostFilter selects a listing by public identifiers.
type PostFilter struct {
	GroupSlug      string
	AuthorUsername string
}

package model

type PostDetailed struct {
	Post   *Post  `json:"post,omitempty"`
	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
	// AuthorPostsCount is only filled for the single post view.
	AuthorPostsCount int `json:"author_posts_count,omitempty"`
}

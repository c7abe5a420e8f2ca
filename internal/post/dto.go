package post

// CreatePostRequest is the body of POST /posts. Slug defaults to one derived from the title.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug,omitempty"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

// UpdatePostRequest is the body of PATCH /posts/{slug}. Omitted fields are left unchanged.
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// AuthorResponse names a post's author
type AuthorResponse struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Content   string          `json:"content"`
	IsPublic  bool            `json:"is_public"`
	Author    *AuthorResponse `json:"author"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ToResponse converts a Post model to a PostResponse DTO, naming the author from names
func (p *Post) ToResponse(names map[string]string) *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		IsPublic:  p.IsPublic,
		Author:    &AuthorResponse{MemberID: p.AuthorID, Name: names[p.AuthorID]},
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

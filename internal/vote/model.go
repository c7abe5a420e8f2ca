package vote

import "time"

// Award names the winner of a category at a meeting. AttendeeID references an attendee;
// Winner is the attendee's display name and is not stored.
type Award struct {
	ID         string    `json:"id"`
	MeetingID  string    `json:"meeting_id"`
	Category   string    `json:"category"`
	AttendeeID string    `json:"attendee_id"`
	Winner     string    `json:"winner"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Candidate is a nominee of a voting category and its running tally
type Candidate struct {
	ID        string  `json:"id"`
	MeetingID string  `json:"meeting_id"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Segment   *string `json:"segment,omitempty"`
	Count     int     `json:"count"`
	SortOrder int     `json:"sort_order"`
}

// Category groups the candidates of one voting category in form order
type Category struct {
	Name       string
	Candidates []*Candidate
}

// Status reports whether a meeting's ballot accepts votes
type Status struct {
	MeetingID string    `json:"meeting_id"`
	Open      bool      `json:"open"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pick is one entry of a ballot
type Pick struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Group splits candidates into categories, keeping the order in which categories first appear
func Group(candidates []*Candidate) []*Category {
	var out []*Category
	index := make(map[string]*Category)
	for _, c := range candidates {
		cat, ok := index[c.Category]
		if !ok {
			cat = &Category{Name: c.Category}
			index[c.Category] = cat
			out = append(out, cat)
		}
		cat.Candidates = append(cat.Candidates, c)
	}
	return out
}

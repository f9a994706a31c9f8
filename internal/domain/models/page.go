package model

const PostsPerPage = 10

type Page struct {
	Items    []*PostDetailed
	Number   int
	Size     int
	Total    int
	NumPages int
}

// NewPage builds an empty page for the given 1-based number; numbers below 1 become 1.
func NewPage(number, size, total int) *Page {
	if number < 1 {
		number = 1
	}
	numPages := 1
	if total > 0 {
		numPages = (total + size - 1) / size
	}
	return &Page{
		Items:    []*PostDetailed{},
		Number:   number,
		Size:     size,
		Total:    total,
		NumPages: numPages,
	}
}

func (p *Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

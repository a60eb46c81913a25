package redis

import "github.com/GetStream/engagement-backend/engagement"

// An author is the cached display data of one actor, stored as a hash.
type author struct {
	Name    string `redis:"name"`
	Picture string `redis:"picture"`
	Bio     string `redis:"bio"`
}

func newAuthor(a engagement.Author) *author {
	return &author{
		Name:    a.Name,
		Picture: a.Picture,
		Bio:     a.Bio,
	}
}

func (a author) Author() engagement.Author {
	return engagement.Author{
		Name:    a.Name,
		Picture: a.Picture,
		Bio:     a.Bio,
	}
}

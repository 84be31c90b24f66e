package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DateJoined   time.Time `json:"dateJoined" db:"date_joined"`
}

// FullName falls back to the username when no name was given.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

type Group struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}

type Post struct {
	ID       int64     `json:"id" db:"id"`
	Text     string    `json:"text" db:"text"`
	PubDate  time.Time `json:"pubDate" db:"pub_date"`
	AuthorID int64     `json:"authorId" db:"author_id"`
	GroupID  *int64    `json:"groupId" db:"group_id"`
	Image    string    `json:"image" db:"image"`

	// joined from users and groups on read
	AuthorUsername string `json:"authorUsername" db:"author_username"`
	GroupTitle     string `json:"groupTitle" db:"group_title"`
	GroupSlug      string `json:"groupSlug" db:"group_slug"`

	ImageURL string `json:"imageUrl" db:"-"`
}

func (p Post) HasGroup() bool {
	return p.GroupID != nil
}

type Comment struct {
	ID             int64     `json:"id" db:"id"`
	PostID         int64     `json:"postId" db:"post_id"`
	AuthorID       int64     `json:"authorId" db:"author_id"`
	AuthorUsername string    `json:"authorUsername" db:"author_username"`
	Text           string    `json:"text" db:"text"`
	Created        time.Time `json:"created" db:"created"`
}

type Follow struct {
	ID       int64 `json:"id" db:"id"`
	UserID   int64 `json:"userId" db:"user_id"`
	AuthorID int64 `json:"authorId" db:"author_id"`
}

// Page is one page of a post listing.
type Page struct {
	Posts    []Post
	Number   int
	NumPages int
	Total    int
	PerPage  int
}

func (p *Page) HasPrevious() bool { return p.Number > 1 }

func (p *Page) HasNext() bool { return p.Number < p.NumPages }

func (p *Page) PreviousNumber() int { return p.Number - 1 }

func (p *Page) NextNumber() int { return p.Number + 1 }

func (p *Page) HasOtherPages() bool { return p.NumPages > 1 }

// Range lists every page number, for rendering the paginator.
func (p *Page) Range() []int {
	numbers := make([]int, 0, p.NumPages)
	for i := 1; i <= p.NumPages; i++ {
		numbers = append(numbers, i)
	}
	return numbers
}

package test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// memDB is an in-memory stand-in for the PostgreSQL schema.
type memDB struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	users     map[int64]*models.User
	passwords map[int64]string
	groups    map[int64]*models.Group
	posts     map[int64]*models.Post
	comments  []models.Comment
	follows   map[[2]int64]bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:     make(map[int64]*models.User),
		passwords: make(map[int64]string),
		groups:    make(map[int64]*models.Group),
		posts:     make(map[int64]*models.Post),
		follows:   make(map[[2]int64]bool),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

// tick returns strictly increasing timestamps so that ordering is deterministic.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Minute)
	return db.clock
}

func (db *memDB) repository() *repository.Repository {
	return &repository.Repository{
		User:    memUsers{db},
		Group:   memGroups{db},
		Post:    memPosts{db},
		Comment: memComments{db},
		Follow:  memFollows{db},
	}
}

func (db *memDB) followCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.follows)
}

func (db *memDB) postByID(id int64) (models.Post, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return *p, true
}

type memUsers struct{ db *memDB }

func (m memUsers) CreateUser(ctx context.Context, user *models.User, password string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Username == user.Username {
			return fmt.Errorf("пользователь %s: %w", user.Username, repository.ErrAlreadyExists)
		}
	}

	user.ID = m.db.id()
	user.DateJoined = m.db.tick()
	user.PasswordHash = "hashed:" + password
	stored := *user
	m.db.users[user.ID] = &stored
	m.db.passwords[user.ID] = password
	return nil
}

func (m memUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Username == username {
			user := *u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := m.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.passwords[user.ID] != password {
		return nil, repository.ErrWrongPassword
	}
	return user, nil
}

type memGroups struct{ db *memDB }

func (m memGroups) Create(ctx context.Context, group *models.Group) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, g := range m.db.groups {
		if g.Slug == group.Slug {
			return repository.ErrAlreadyExists
		}
	}
	group.ID = m.db.id()
	stored := *group
	m.db.groups[group.ID] = &stored
	return nil
}

func (m memGroups) GetByID(ctx context.Context, groupID int64) (*models.Group, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	g, ok := m.db.groups[groupID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	group := *g
	return &group, nil
}

func (m memGroups) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, g := range m.db.groups {
		if g.Slug == slug {
			group := *g
			return &group, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memGroups) List(ctx context.Context) ([]models.Group, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	groups := []models.Group{}
	for _, g := range m.db.groups {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

type memPosts struct{ db *memDB }

// joined fills the columns the SQL query takes from users and groups.
func (m memPosts) joined(p *models.Post) models.Post {
	post := *p
	if u, ok := m.db.users[p.AuthorID]; ok {
		post.AuthorUsername = u.Username
	}
	post.GroupTitle, post.GroupSlug = "", ""
	if p.GroupID != nil {
		if g, ok := m.db.groups[*p.GroupID]; ok {
			post.GroupTitle, post.GroupSlug = g.Title, g.Slug
		}
	}
	return post
}

func (m memPosts) matches(p *models.Post, filter repository.PostFilter) bool {
	if filter.GroupID != 0 && (p.GroupID == nil || *p.GroupID != filter.GroupID) {
		return false
	}
	if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
		return false
	}
	if filter.FollowerID != 0 && !m.db.follows[[2]int64{filter.FollowerID, p.AuthorID}] {
		return false
	}
	return true
}

func (m memPosts) Create(ctx context.Context, post *models.Post) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	post.ID = m.db.id()
	post.PubDate = m.db.tick()
	stored := *post
	m.db.posts[post.ID] = &stored
	return nil
}

func (m memPosts) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	p, ok := m.db.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	post := m.joined(p)
	return &post, nil
}

func (m memPosts) Update(ctx context.Context, post *models.Post) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	p, ok := m.db.posts[post.ID]
	if !ok || p.AuthorID != post.AuthorID {
		return repository.ErrNotFound
	}
	p.Text, p.GroupID, p.Image = post.Text, post.GroupID, post.Image
	return nil
}

func (m memPosts) Delete(ctx context.Context, postID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, ok := m.db.posts[postID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.db.posts, postID)

	kept := m.db.comments[:0]
	for _, c := range m.db.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	m.db.comments = kept
	return nil
}

func (m memPosts) Count(ctx context.Context, filter repository.PostFilter) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	count := 0
	for _, p := range m.db.posts {
		if m.matches(p, filter) {
			count++
		}
	}
	return count, nil
}

func (m memPosts) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	all := []models.Post{}
	for _, p := range m.db.posts {
		if m.matches(p, filter) {
			all = append(all, m.joined(p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].PubDate.Equal(all[j].PubDate) {
			return all[i].PubDate.After(all[j].PubDate)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type memComments struct{ db *memDB }

func (m memComments) Create(ctx context.Context, comment *models.Comment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	comment.ID = m.db.id()
	comment.Created = m.db.tick()
	m.db.comments = append(m.db.comments, *comment)
	return nil
}

func (m memComments) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range m.db.comments {
		if c.PostID == postID {
			if u, ok := m.db.users[c.AuthorID]; ok {
				c.AuthorUsername = u.Username
			}
			comments = append(comments, c)
		}
	}
	return comments, nil
}

type memFollows struct{ db *memDB }

func (m memFollows) GetOrCreate(ctx context.Context, userID, authorID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if userID == authorID {
		return false, fmt.Errorf("нарушено ограничение follows_no_self_follow")
	}
	key := [2]int64{userID, authorID}
	if m.db.follows[key] {
		return false, nil
	}
	m.db.follows[key] = true
	return true, nil
}

func (m memFollows) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	key := [2]int64{userID, authorID}
	existed := m.db.follows[key]
	delete(m.db.follows, key)
	return existed, nil
}

func (m memFollows) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.db.follows[[2]int64{userID, authorID}], nil
}

// memStorage keeps uploaded images in memory.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) UploadImage(ctx context.Context, authorID int64, fileName string, file io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("posts/%d/%d-%s", authorID, s.seq, fileName)
	s.objects[name] = data
	return name, nil
}

func (s *memStorage) DeleteImage(ctx context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	return nil
}

func (s *memStorage) ImageURL(objectName string) string {
	return "http://minio.test/images/" + objectName
}

func (s *memStorage) has(objectName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectName]
	return ok
}

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck(ctx context.Context) error { return s.err }

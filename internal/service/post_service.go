package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/storage"
)

// ImageUpload is an image file submitted with a post form.
type ImageUpload struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

type CreatePostRequest struct {
	AuthorID int64
	Text     string
	GroupID  *int64
	Image    *ImageUpload
}

type UpdatePostRequest struct {
	PostID  int64
	UserID  int64
	Text    string
	GroupID *int64
	Image   *ImageUpload
}

type PostDetail struct {
	Post            *models.Post
	Comments        []models.Comment
	AuthorPostCount int
}

type PostService interface {
	Index(ctx context.Context, page int) (*models.Page, error)
	GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *models.Page, error)
	ProfileFeed(ctx context.Context, authorID int64, page int) (*models.Page, error)
	FollowFeed(ctx context.Context, userID int64, page int) (*models.Page, error)
	GetPost(ctx context.Context, postID int64) (*models.Post, error)
	Detail(ctx context.Context, postID int64) (*PostDetail, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, userID int64) (*models.Post, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	storage     storage.Storage
	logger      *slog.Logger
}

func NewPostService(rep *repository.Repository, storage storage.Storage, logger *slog.Logger) PostService {
	return &postService{
		postRepo:    rep.Post,
		groupRepo:   rep.Group,
		commentRepo: rep.Comment,
		storage:     storage,
		logger:      logger,
	}
}

func (p *postService) Index(ctx context.Context, page int) (*models.Page, error) {
	return p.paginate(ctx, repository.PostFilter{}, page)
}

func (p *postService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *models.Page, error) {
	group, err := p.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	result, err := p.paginate(ctx, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, nil, err
	}

	return group, result, nil
}

func (p *postService) ProfileFeed(ctx context.Context, authorID int64, page int) (*models.Page, error) {
	return p.paginate(ctx, repository.PostFilter{AuthorID: authorID}, page)
}

func (p *postService) FollowFeed(ctx context.Context, userID int64, page int) (*models.Page, error) {
	return p.paginate(ctx, repository.PostFilter{FollowerID: userID}, page)
}

func (p *postService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	p.fillImageURL(post)
	return post, nil
}

func (p *postService) Detail(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := p.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := p.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:            post,
		Comments:        comments,
		AuthorPostCount: count,
	}, nil
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	if err := p.checkGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: req.AuthorID,
		Text:     text,
		GroupID:  req.GroupID,
	}

	if req.Image != nil {
		objectName, err := p.uploadImage(ctx, req.AuthorID, req.Image)
		if err != nil {
			return nil, err
		}
		post.Image = objectName
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		p.removeImage(ctx, post.Image)
		return nil, err
	}

	p.fillImageURL(post)
	return post, nil
}

// UpdatePost changes text and group in place. A new image replaces the old one,
// which is then removed from storage.
func (p *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != req.UserID {
		return nil, ErrForbidden
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	if err := p.checkGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = req.GroupID

	oldImage := ""
	if req.Image != nil {
		objectName, err := p.uploadImage(ctx, post.AuthorID, req.Image)
		if err != nil {
			return nil, err
		}
		oldImage = post.Image
		post.Image = objectName
	}

	if err := p.postRepo.Update(ctx, post); err != nil {
		if req.Image != nil {
			p.removeImage(ctx, post.Image)
		}
		return nil, err
	}

	p.removeImage(ctx, oldImage)
	p.fillImageURL(post)
	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, postID, userID int64) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, ErrForbidden
	}

	if err := p.postRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}

	p.removeImage(ctx, post.Image)
	return post, nil
}

func (p *postService) paginate(ctx context.Context, filter repository.PostFilter, requested int) (*models.Page, error) {
	total, err := p.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	number, numPages := clampPage(requested, total, PostsPerPage)

	posts, err := p.postRepo.List(ctx, filter, PostsPerPage, (number-1)*PostsPerPage)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		p.fillImageURL(&posts[i])
	}

	return &models.Page{
		Posts:    posts,
		Number:   number,
		NumPages: numPages,
		Total:    total,
		PerPage:  PostsPerPage,
	}, nil
}

func (p *postService) checkGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}

	_, err := p.groupRepo.GetByID(ctx, *groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnknownGroup
	}
	return err
}

func (p *postService) uploadImage(ctx context.Context, authorID int64, image *ImageUpload) (string, error) {
	if p.storage == nil {
		return "", ErrStorageUnavailable
	}

	objectName, err := p.storage.UploadImage(ctx, authorID, image.FileName, image.Reader, image.Size)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки изображения: %w", err)
	}
	return objectName, nil
}

func (p *postService) removeImage(ctx context.Context, objectName string) {
	if objectName == "" || p.storage == nil {
		return
	}

	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		p.logger.Warn("не удалось удалить изображение", slog.String("object", objectName), slog.Any("error", err))
	}
}

func (p *postService) fillImageURL(post *models.Post) {
	if post.Image != "" && p.storage != nil {
		post.ImageURL = p.storage.ImageURL(post.Image)
	}
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vkarpov/yatube/models"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a GORM backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// newestFirst is the default ordering for every post listing. The id tiebreak
// keeps the order stable for posts created within the same timestamp.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := newestFirst(r.db.WithContext(ctx).Preload("Author").Preload("Group")).Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint) ([]models.Post, error) {
	var posts []models.Post
	err := newestFirst(r.db.WithContext(ctx).Preload("Author").Where("group_id = ?", groupID)).Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := newestFirst(r.db.WithContext(ctx).Preload("Author").Preload("Group").Where("author_id = ?", authorID)).Find(&posts).Error
	return posts, err
}

// ListFollowed returns posts whose author the given user follows.
func (r *postRepository) ListFollowed(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := newestFirst(r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID)).
		Find(&posts).Error
	return posts, err
}

// Update rewrites the mutable columns only. Identifier, author and creation
// timestamp are never part of the update set.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":      post.Text,
			"group_id":  post.GroupID,
			"image_url": post.ImageURL,
		}).Error
}

// Delete removes the post and its comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

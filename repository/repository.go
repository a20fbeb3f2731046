package repository

import (
	"context"

	"github.com/vkarpov/yatube/models"
)

// UserRepository resolves author identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// GroupRepository reads categories and owns the administrative delete rule:
// removing a group detaches its posts instead of removing them.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

// PostRepository owns all post queries. Every listing is ordered newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByGroup(ctx context.Context, groupID uint) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	ListFollowed(ctx context.Context, userID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// CommentRepository owns comment queries, newest first.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

// FollowRepository manages subscription edges. Follow and Unfollow are both
// idempotent; duplicate edges are prevented by the composite unique index.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID uint) error
	Unfollow(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
}

// Repositories bundles every repository implementation for wiring.
type Repositories struct {
	Users    UserRepository
	Groups   GroupRepository
	Posts    PostRepository
	Comments CommentRepository
	Follows  FollowRepository
}

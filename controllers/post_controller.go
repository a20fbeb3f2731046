package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/config"
	"github.com/vkarpov/yatube/forms"
	"github.com/vkarpov/yatube/middleware"
	"github.com/vkarpov/yatube/models"
	"github.com/vkarpov/yatube/repository"
	"github.com/vkarpov/yatube/utils"
	"github.com/vkarpov/yatube/views"
)

// PostController serves every post, comment and follow action. It composes
// repository queries, authorization checks and the view renderer; the author
// of any mutation is always the authenticated identity, never client input.
type PostController struct {
	repos    repository.Repositories
	renderer views.Renderer
	pageSize int
}

// NewPostController creates a PostController with the configured page size.
func NewPostController(repos repository.Repositories, renderer views.Renderer) *PostController {
	return &PostController{
		repos:    repos,
		renderer: renderer,
		pageSize: config.Get().PageSize,
	}
}

// Index lists all posts, newest first, paginated. The whole response is
// cached by the page-cache middleware on this route.
func (p *PostController) Index(ctx *gin.Context) {
	posts, err := p.repos.Posts.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}
	pagePosts, info := utils.Paginate(posts, utils.ParsePage(ctx.Query("page")), p.pageSize)
	p.renderer.Render(ctx, http.StatusOK, views.TemplateIndex, gin.H{
		"page_obj":  pagePosts,
		"paginator": info,
	})
}

// GroupPosts lists the posts of the group resolved by slug.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	slug := ctx.Param("slug")
	group, err := p.repos.Groups.GetBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load group")
		return
	}
	posts, err := p.repos.Posts.ListByGroup(ctx.Request.Context(), group.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list group posts")
		return
	}
	pagePosts, info := utils.Paginate(posts, utils.ParsePage(ctx.Query("page")), p.pageSize)
	p.renderer.Render(ctx, http.StatusOK, views.TemplateGroupList, gin.H{
		"group":     group,
		"page_obj":  pagePosts,
		"paginator": info,
	})
}

// Profile lists the posts of the author resolved by username. For an
// authenticated viewer the context also reports whether they follow the author.
func (p *PostController) Profile(ctx *gin.Context) {
	author, err := p.repos.Users.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load author")
		return
	}
	posts, err := p.repos.Posts.ListByAuthor(ctx.Request.Context(), author.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to list author posts")
		return
	}

	following := false
	if viewer, ok := middleware.UserFrom(ctx); ok && viewer.ID != author.ID {
		exists, err := p.repos.Follows.Exists(ctx.Request.Context(), viewer.ID, author.ID)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("follow lookup failed user=%d author=%d err=%v", viewer.ID, author.ID, err)
			}
		} else {
			following = exists
		}
	}

	pagePosts, info := utils.Paginate(posts, utils.ParsePage(ctx.Query("page")), p.pageSize)
	p.renderer.Render(ctx, http.StatusOK, views.TemplateProfile, gin.H{
		"author":    author,
		"following": following,
		"page_obj":  pagePosts,
		"paginator": info,
	})
}

// PostDetail shows a single post with its comments and an empty comment form.
func (p *PostController) PostDetail(ctx *gin.Context) {
	post, ok := p.resolvePost(ctx)
	if !ok {
		return
	}
	comments, err := p.repos.Comments.ListByPost(ctx.Request.Context(), post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to list comments")
		return
	}
	p.renderer.Render(ctx, http.StatusOK, views.TemplatePostDetail, gin.H{
		"post":     post,
		"comments": comments,
		"form":     forms.CommentForm{},
	})
}

// Create handles the post submission form. GET renders the empty form; POST
// validates and persists, then redirects to the author's profile. Validation
// failures re-render the form with field errors and a success status.
func (p *PostController) Create(ctx *gin.Context) {
	user, ok := middleware.UserFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if ctx.Request.Method == http.MethodGet {
		p.renderer.Render(ctx, http.StatusOK, views.TemplateCreatePost, gin.H{
			"form":    forms.PostForm{},
			"is_edit": false,
		})
		return
	}

	form, ok := p.bindPostForm(ctx)
	if !ok {
		return
	}
	result := form.Validate(ctx.Request.Context(), p.repos.Groups)
	if !result.Valid {
		p.renderer.Render(ctx, http.StatusOK, views.TemplateCreatePost, gin.H{
			"form":    form,
			"errors":  result.Errors,
			"is_edit": false,
		})
		return
	}

	post := models.Post{
		Text:     utils.Sanitize(form.Text),
		AuthorID: user.ID,
		GroupID:  form.GroupID,
		ImageURL: form.ImageURL,
	}
	if err := p.repos.Posts.Create(ctx.Request.Context(), &post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to create post")
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(user.Username))
}

// Edit updates an existing post. Only the author may edit; anyone else is
// sent back to the post detail page with nothing changed.
func (p *PostController) Edit(ctx *gin.Context) {
	user, ok := middleware.UserFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	post, ok := p.resolvePost(ctx)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		ctx.Redirect(http.StatusFound, postDetailURL(post.ID))
		return
	}

	if ctx.Request.Method == http.MethodGet {
		p.renderer.Render(ctx, http.StatusOK, views.TemplateCreatePost, gin.H{
			"form":    forms.PostForm{Text: post.Text, GroupID: post.GroupID, ImageURL: post.ImageURL},
			"is_edit": true,
		})
		return
	}

	form, ok := p.bindPostForm(ctx)
	if !ok {
		return
	}
	result := form.Validate(ctx.Request.Context(), p.repos.Groups)
	if !result.Valid {
		p.renderer.Render(ctx, http.StatusOK, views.TemplateCreatePost, gin.H{
			"form":    form,
			"errors":  result.Errors,
			"is_edit": true,
		})
		return
	}

	post.Text = utils.Sanitize(form.Text)
	post.GroupID = form.GroupID
	if form.ImageURL != "" {
		post.ImageURL = form.ImageURL
	}
	if err := p.repos.Posts.Update(ctx.Request.Context(), post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to update post")
		return
	}
	ctx.Redirect(http.StatusFound, postDetailURL(post.ID))
}

// AddComment attaches a comment to a post and redirects to the detail page.
// Invalid submissions redirect without persisting anything, mirroring the
// silent no-op behaviour of the original platform.
func (p *PostController) AddComment(ctx *gin.Context) {
	user, ok := middleware.UserFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	post, ok := p.resolvePost(ctx)
	if !ok {
		return
	}

	form := forms.CommentForm{Text: ctx.PostForm("text")}
	if result := form.Validate(); result.Valid {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     utils.Sanitize(form.Text),
		}
		if err := p.repos.Comments.Create(ctx.Request.Context(), &comment); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to create comment")
			return
		}
	}
	ctx.Redirect(http.StatusFound, postDetailURL(post.ID))
}

// FollowIndex lists the posts of every author the current user follows.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	user, ok := middleware.UserFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}
	posts, err := p.repos.Posts.ListFollowed(ctx.Request.Context(), user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to list followed posts")
		return
	}
	pagePosts, info := utils.Paginate(posts, utils.ParsePage(ctx.Query("page")), p.pageSize)
	p.renderer.Render(ctx, http.StatusOK, views.TemplateFollow, gin.H{
		"page_obj":  pagePosts,
		"paginator": info,
	})
}

// FollowAuthor subscribes the current user to an author. Following yourself
// or an already-followed author silently changes nothing.
func (p *PostController) FollowAuthor(ctx *gin.Context) {
	user, author, ok := p.resolveFollowPair(ctx)
	if !ok {
		return
	}
	if author.ID != user.ID {
		if err := p.repos.Follows.Follow(ctx.Request.Context(), user.ID, author.ID); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to follow author")
			return
		}
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// UnfollowAuthor removes the subscription edge when present.
func (p *PostController) UnfollowAuthor(ctx *gin.Context) {
	user, author, ok := p.resolveFollowPair(ctx)
	if !ok {
		return
	}
	if err := p.repos.Follows.Unfollow(ctx.Request.Context(), user.ID, author.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to unfollow author")
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// resolvePost loads the post addressed by the id path parameter, answering
// 404 for malformed or unknown identifiers.
func (p *PostController) resolvePost(ctx *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
		return nil, false
	}
	post, err := p.repos.Posts.GetByID(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return nil, false
	}
	return post, true
}

func (p *PostController) resolveFollowPair(ctx *gin.Context) (user, author *models.User, ok bool) {
	user, okUser := middleware.UserFrom(ctx)
	if !okUser {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return nil, nil, false
	}
	author, err := p.repos.Users.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40413, "author not found")
			return nil, nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load author")
		return nil, nil, false
	}
	return user, author, true
}

// bindPostForm reads the submitted post payload, saving the optional image
// attachment. Oversized images are rejected as a client error; the group
// choice stays raw and is resolved by the form's own validation.
func (p *PostController) bindPostForm(ctx *gin.Context) (*forms.PostForm, bool) {
	form := &forms.PostForm{
		Text:  ctx.PostForm("text"),
		Group: ctx.PostForm("group"),
	}

	if header, err := ctx.FormFile("image"); err == nil && header != nil {
		cfg := config.Get()
		url, err := utils.SaveImage(header, cfg.UploadDir, int64(cfg.MaxImageSizeMB)<<20)
		if err != nil {
			if errors.Is(err, utils.ErrImageTooLarge) {
				utils.Error(ctx, http.StatusBadRequest, 40011, "image exceeds size limit")
				return nil, false
			}
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to store image")
			return nil, false
		}
		form.ImageURL = url
	}

	return form, true
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postDetailURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

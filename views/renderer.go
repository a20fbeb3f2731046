// Package views is the boundary to the rendering collaborator. Handlers hand
// over a template name and a context mapping; how the page is produced is not
// their concern.
package views

import (
	"github.com/gin-gonic/gin"

	"github.com/vkarpov/yatube/utils"
)

// Template names used across the handlers.
const (
	TemplateIndex      = "posts/index"
	TemplateGroupList  = "posts/group_list"
	TemplateProfile    = "posts/profile"
	TemplatePostDetail = "posts/post_detail"
	TemplateCreatePost = "posts/create_post"
	TemplateFollow     = "posts/follow"
)

// Renderer turns a context mapping into a response body.
type Renderer interface {
	Render(ctx *gin.Context, status int, template string, data gin.H)
}

// JSONRenderer renders the context mapping inside the standard response
// envelope, tagged with the template it corresponds to.
type JSONRenderer struct{}

// NewJSONRenderer returns the default production renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(ctx *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{"template": template}
	for k, v := range data {
		payload[k] = v
	}
	utils.Respond(ctx, status, 0, "success", payload)
}

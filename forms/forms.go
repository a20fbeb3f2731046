// Package forms holds the validated payload shapes submitted by users. Each form
// is an explicit struct with a validation method returning a structured result;
// user mistakes never surface as Go errors.
package forms

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/repository"
)

var validate = validator.New()

// Result reports the outcome of a form validation. Errors maps a field name to
// the list of messages for that field.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func newResult() *Result {
	return &Result{Valid: true, Errors: map[string][]string{}}
}

func (r *Result) addError(field, message string) {
	r.Valid = false
	r.Errors[field] = append(r.Errors[field], message)
}

// PostForm is the submission payload for creating or editing a post. Author is
// deliberately absent: it always derives from the authenticated identity.
// Group holds the raw submitted choice; Validate resolves it into GroupID.
type PostForm struct {
	Text     string `form:"text" json:"text" validate:"required"`
	Group    string `form:"group" json:"group"`
	GroupID  *uint  `form:"-" json:"-"`
	ImageURL string `form:"-" json:"-"`
}

// Validate trims and checks the payload. The group choice is a field error in
// every failure mode: not a number, unknown id, or a lookup that cannot be
// verified. A malformed choice never surfaces as a transport error.
func (f *PostForm) Validate(ctx context.Context, groups repository.GroupRepository) *Result {
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)
	res := newResult()
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				res.addError(strings.ToLower(fe.Field()), "this field is required")
			}
		} else {
			res.addError("text", "invalid payload")
		}
	}
	if f.Group != "" {
		raw, err := strconv.ParseUint(f.Group, 10, 64)
		if err != nil {
			res.addError("group", "select a valid choice")
			return res
		}
		id := uint(raw)
		if _, err := groups.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.addError("group", "group does not exist")
			} else {
				res.addError("group", "group could not be verified")
			}
			return res
		}
		f.GroupID = &id
	}
	return res
}

// CommentForm is the submission payload for commenting on a post.
type CommentForm struct {
	Text string `form:"text" json:"text" validate:"required"`
}

// Validate trims the text and checks it is non-empty.
func (f *CommentForm) Validate() *Result {
	f.Text = strings.TrimSpace(f.Text)
	res := newResult()
	if err := validate.Struct(f); err != nil {
		res.addError("text", "this field is required")
	}
	return res
}

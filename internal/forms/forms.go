// Package forms binds and validates submitted form values for posts and
// comments. A form validates without persisting anything, so handlers can
// stamp server-controlled fields (author, timestamps) before saving.
package forms

import (
	"context"
	"strconv"
	"strings"

	"inkwell/internal/models"
)

// GroupLookup is the narrow read surface forms need to verify a submitted
// group reference.
type GroupLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
}

// PostForm carries the raw submitted post fields plus field-level errors.
// GroupValue keeps the raw select value so a failed submission re-renders
// with the user's choice intact.
type PostForm struct {
	Text       string
	GroupValue string
	GroupID    *uint
	ImagePath  string
	Errors     map[string]string
}

// ParsePost validates raw post fields. A non-empty group value must parse
// and reference an existing group.
func ParsePost(ctx context.Context, text, groupValue string, groups GroupLookup) *PostForm {
	form := &PostForm{
		Text:       strings.TrimSpace(text),
		GroupValue: strings.TrimSpace(groupValue),
		Errors:     map[string]string{},
	}

	if form.Text == "" {
		form.Errors["text"] = "Text is required"
	}

	if form.GroupValue != "" {
		id, err := strconv.ParseUint(form.GroupValue, 10, 32)
		if err != nil {
			form.Errors["group"] = "Invalid group"
			return form
		}
		groupID := uint(id)
		if _, err := groups.GetByID(ctx, groupID); err != nil {
			if models.IsNotFound(err) {
				form.Errors["group"] = "Unknown group"
			} else {
				form.Errors["group"] = "Group could not be verified"
			}
			return form
		}
		form.GroupID = &groupID
	}

	return form
}

// AddImageError records a failed image upload validation.
func (f *PostForm) AddImageError(message string) {
	f.Errors["image"] = message
}

// Valid reports whether the form passed validation.
func (f *PostForm) Valid() bool {
	return len(f.Errors) == 0
}

// Apply copies the validated fields onto a post, leaving author and pub_date
// untouched.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.GroupID = f.GroupID
	if f.ImagePath != "" {
		post.ImagePath = f.ImagePath
	}
}

// CommentForm carries the single comment field plus field-level errors.
type CommentForm struct {
	Text   string
	Errors map[string]string
}

// ParseComment validates a raw comment submission.
func ParseComment(text string) *CommentForm {
	form := &CommentForm{
		Text:   strings.TrimSpace(text),
		Errors: map[string]string{},
	}
	if form.Text == "" {
		form.Errors["text"] = "Text is required"
	}
	return form
}

// Valid reports whether the form passed validation.
func (f *CommentForm) Valid() bool {
	return len(f.Errors) == 0
}

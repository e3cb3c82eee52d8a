package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentRequiresLogin(t *testing.T) {
	e := newTestEnv(t)
	author := e.createUser(t, "leo")
	post := e.createPost(t, author, "a post", nil)

	commentURL := fmt.Sprintf("/posts/%d/comment", post.ID)
	resp := e.postForm(t, commentURL, url.Values{"text": {"anonymous comment"}}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape(commentURL), resp.Header.Get("Location"))
	resp.Body.Close()

	var count int64
	require.NoError(t, e.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddComment(t *testing.T) {
	e := newTestEnv(t)
	author := e.createUser(t, "leo")
	commenter := e.createUser(t, "mia")
	post := e.createPost(t, author, "a post", nil)
	cookies := e.login(t, "mia")

	resp := e.postForm(t, fmt.Sprintf("/posts/%d/comment", post.ID),
		url.Values{"text": {"well said"}}, cookies)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))
	resp.Body.Close()

	var comment models.Comment
	require.NoError(t, e.db.First(&comment).Error)
	assert.Equal(t, "well said", comment.Text)
	assert.Equal(t, commenter.ID, comment.AuthorID)
	assert.Equal(t, post.ID, comment.PostID)

	body := readBody(t, e.get(t, fmt.Sprintf("/posts/%d", post.ID), cookies))
	assert.Contains(t, body, "well said")
	assert.Contains(t, body, "mia")
}

func TestAddCommentIgnoresEmptyText(t *testing.T) {
	e := newTestEnv(t)
	author := e.createUser(t, "leo")
	e.createUser(t, "mia")
	post := e.createPost(t, author, "a post", nil)
	cookies := e.login(t, "mia")

	resp := e.postForm(t, fmt.Sprintf("/posts/%d/comment", post.ID),
		url.Values{"text": {"   "}}, cookies)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))
	resp.Body.Close()

	var count int64
	require.NoError(t, e.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddCommentUnknownPostIs404(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "mia")
	cookies := e.login(t, "mia")

	resp := e.postForm(t, "/posts/9999/comment", url.Values{"text": {"hello"}}, cookies)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	e := newTestEnv(t)
	author := e.createUser(t, "leo")
	e.createUser(t, "mia")
	post := e.createPost(t, author, "a post", nil)
	cookies := e.login(t, "mia")

	for _, text := range []string{"first comment", "second comment"} {
		resp := e.postForm(t, fmt.Sprintf("/posts/%d/comment", post.ID),
			url.Values{"text": {text}}, cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		resp.Body.Close()
	}

	body := readBody(t, e.get(t, fmt.Sprintf("/posts/%d", post.ID), nil))
	first := strings.Index(body, "first comment")
	second := strings.Index(body, "second comment")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

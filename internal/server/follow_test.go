package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowFeedShowsFollowedAuthorsOnly(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "reader")
	followed := e.createUser(t, "followed")
	stranger := e.createUser(t, "stranger")
	e.createPost(t, followed, "from a followed author", nil)
	e.createPost(t, stranger, "from a stranger", nil)
	cookies := e.login(t, "reader")

	// Empty before following anyone.
	body := readBody(t, e.get(t, "/follow", cookies))
	assert.NotContains(t, body, "from a followed author")
	assert.NotContains(t, body, "from a stranger")

	resp := e.get(t, "/profile/followed/follow", cookies)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/followed/", resp.Header.Get("Location"))
	resp.Body.Close()

	body = readBody(t, e.get(t, "/follow", cookies))
	assert.Contains(t, body, "from a followed author")
	assert.NotContains(t, body, "from a stranger")
}

func TestFollowFeedsDifferPerUser(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "alice")
	e.createUser(t, "bob")
	poet := e.createUser(t, "poet")
	chef := e.createUser(t, "chef")
	e.createPost(t, poet, "a poem", nil)
	e.createPost(t, chef, "a recipe", nil)

	aliceCookies := e.login(t, "alice")
	bobCookies := e.login(t, "bob")
	e.get(t, "/profile/poet/follow", aliceCookies).Body.Close()
	e.get(t, "/profile/chef/follow", bobCookies).Body.Close()

	aliceFeed := readBody(t, e.get(t, "/follow", aliceCookies))
	assert.Contains(t, aliceFeed, "a poem")
	assert.NotContains(t, aliceFeed, "a recipe")

	bobFeed := readBody(t, e.get(t, "/follow", bobCookies))
	assert.Contains(t, bobFeed, "a recipe")
	assert.NotContains(t, bobFeed, "a poem")
}

func TestUnfollowRemovesFromFeed(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "reader")
	followed := e.createUser(t, "followed")
	e.createPost(t, followed, "from a followed author", nil)
	cookies := e.login(t, "reader")

	e.get(t, "/profile/followed/follow", cookies).Body.Close()
	body := readBody(t, e.get(t, "/follow", cookies))
	assert.Contains(t, body, "from a followed author")

	resp := e.get(t, "/profile/followed/unfollow", cookies)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	body = readBody(t, e.get(t, "/follow", cookies))
	assert.NotContains(t, body, "from a followed author")
}

func TestFollowIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	reader := e.createUser(t, "reader")
	followed := e.createUser(t, "followed")
	cookies := e.login(t, "reader")

	for i := 0; i < 3; i++ {
		resp := e.get(t, "/profile/followed/follow", cookies)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		resp.Body.Close()
	}

	var count int64
	require.NoError(t, e.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", reader.ID, followed.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSelfFollowIsRefused(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "reader")
	cookies := e.login(t, "reader")

	resp := e.get(t, "/profile/reader/follow", cookies)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/reader/", resp.Header.Get("Location"))
	resp.Body.Close()

	var count int64
	require.NoError(t, e.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnfollowWithoutFollowingIsNoop(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "reader")
	e.createUser(t, "followed")
	cookies := e.login(t, "reader")

	resp := e.get(t, "/profile/followed/unfollow", cookies)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFollowFeedRequiresLogin(t *testing.T) {
	e := newTestEnv(t)

	resp := e.get(t, "/follow", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=%2Ffollow", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestProfileShowsFollowState(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "reader")
	author := e.createUser(t, "followed")
	e.createPost(t, author, "an authored post", nil)
	cookies := e.login(t, "reader")

	body := readBody(t, e.get(t, "/profile/followed", cookies))
	assert.Contains(t, body, "/profile/followed/follow")
	assert.Contains(t, body, "1 posts")
	assert.Contains(t, body, "0 followers")

	e.get(t, "/profile/followed/follow", cookies).Body.Close()

	body = readBody(t, e.get(t, "/profile/followed", cookies))
	assert.Contains(t, body, "/profile/followed/unfollow")
	assert.Contains(t, body, "1 followers")
}

func TestProfileUnknownUsernameIs404(t *testing.T) {
	e := newTestEnv(t)

	resp := e.get(t, "/profile/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

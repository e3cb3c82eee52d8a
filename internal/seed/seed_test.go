package seed

import (
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRunSeedsRequestedCounts(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger: database.NewGormLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	require.NoError(t, Run(db, Options{
		NumUsers:    4,
		NumGroups:   2,
		NumPosts:    12,
		NumComments: 6,
		NumFollows:  5,
	}))

	var users, groups, posts, comments, follows int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&follows).Error)

	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(2), groups)
	assert.Equal(t, int64(12), posts)
	assert.Equal(t, int64(6), comments)
	// Self-pairs are skipped and random pairs can collide.
	assert.LessOrEqual(t, follows, int64(5))

	// No follow may pair a user with themselves.
	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

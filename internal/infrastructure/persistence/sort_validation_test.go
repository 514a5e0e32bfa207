package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ascending; DROP TABLE users"))
}

func TestValidateSortField(t *testing.T) {
	t.Run("accepts whitelisted fields", func(t *testing.T) {
		assert.Equal(t, "email", ValidateSortField("email", UserSortFields, "created_at"))
		assert.Equal(t, "date", ValidateSortField("date", AttendanceSortFields, "created_at"))
	})

	t.Run("falls back to default for unknown fields", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("password_hash", UserSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("", UserSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("id; DELETE FROM users", UserSortFields, "created_at"))
	})
}

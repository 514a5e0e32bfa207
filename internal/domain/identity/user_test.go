package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser(tenantID, "Jane.Doe@Example.com", "password1", RoleEmployee)
		assert.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", user.Email)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.Equal(t, RoleEmployee, user.Role)
		assert.NotEqual(t, "password1", user.PasswordHash)
		assert.True(t, user.VerifyPassword("password1"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(tenantID, "not-an-email", "password1", RoleEmployee)
		assert.Error(t, err)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.com", "short1", RoleEmployee)
		assert.Error(t, err)

		_, err = NewUser(tenantID, "a@b.com", "onlyletters", RoleEmployee)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.com", "password1", Role("superuser"))
		assert.Error(t, err)
	})

	t.Run("active constructor skips pending state", func(t *testing.T) {
		user, err := NewActiveUser(tenantID, "a@b.com", "password1", RoleHRAdmin)
		assert.NoError(t, err)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.CanLogin())
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)

	t.Run("requires correct current password", func(t *testing.T) {
		err := user.ChangePassword("wrong", "newpassword1")
		assert.Error(t, err)
	})

	t.Run("changes password and records event", func(t *testing.T) {
		user.ClearDomainEvents()
		err := user.ChangePassword("password1", "newpassword1")
		assert.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpassword1"))
		assert.False(t, user.VerifyPassword("password1"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})
}

func TestUser_ChangeRole(t *testing.T) {
	user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)
	user.ClearDomainEvents()

	err := user.ChangeRole(RoleManager)
	assert.NoError(t, err)
	assert.Equal(t, RoleManager, user.Role)
	assert.True(t, user.IsManager())
	assert.Len(t, user.GetDomainEvents(), 1)

	// Same role is a no-op
	user.ClearDomainEvents()
	err = user.ChangeRole(RoleManager)
	assert.NoError(t, err)
	assert.Empty(t, user.GetDomainEvents())
}

func TestUser_LoginLifecycle(t *testing.T) {
	t.Run("lockout after repeated failures", func(t *testing.T) {
		user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)

		locked := false
		for i := 0; i < 5; i++ {
			locked = user.RecordLoginFailure(5, time.Hour)
		}
		assert.True(t, locked)
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)
		_ = user.Lock(-time.Minute)
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets failures", func(t *testing.T) {
		user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)
		user.RecordLoginFailure(5, time.Hour)
		user.RecordLoginSuccess("203.0.113.9")
		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "203.0.113.9", user.LastLoginIP)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("pending and deactivated users cannot login", func(t *testing.T) {
		pending, _ := NewUser(uuid.New(), "a@b.com", "password1", RoleEmployee)
		assert.False(t, pending.CanLogin())

		active, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)
		_ = active.Deactivate()
		assert.False(t, active.CanLogin())
	})
}

func TestUser_Unlock(t *testing.T) {
	user, _ := NewActiveUser(uuid.New(), "a@b.com", "password1", RoleEmployee)

	err := user.Unlock()
	assert.Error(t, err)

	_ = user.Lock(time.Hour)
	err = user.Unlock()
	assert.NoError(t, err)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Equal(t, 0, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
}

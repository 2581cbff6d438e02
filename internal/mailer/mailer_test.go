package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rmarin/portfolio-be/internal/models"
)

func TestNewWithoutHostDisablesNotifications(t *testing.T) {
	require.Nil(t, New("", 587, "user", "pass", "to@example.com", time.Second))
}

func TestNotifyNewContactUnreachableHost(t *testing.T) {
	m := New("127.0.0.1", 1, "user", "pass", "to@example.com", 100*time.Millisecond)
	require.NotNil(t, m)

	err := m.NotifyNewContact(models.ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Hi",
	})
	require.Error(t, err, "an unreachable SMTP host reports a send failure")
}

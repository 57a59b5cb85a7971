package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/internal/config"
)

func TestOfferLetterEscapesAndIncludesCredentials(t *testing.T) {
	letter := OfferLetter{
		Company:  "Sadhna Construction",
		Position: "Mason <b>",
		Username: "ravi_kumar",
		Password: "mason4521",
		Deadline: time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC),
		SignedBy: "admin",
	}
	msg, err := letter.Render("ravi@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ravi@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Sadhna Construction")
	assert.Contains(t, msg.HTML, "ravi_kumar")
	assert.Contains(t, msg.HTML, "mason4521")
	assert.Contains(t, msg.HTML, "June 22, 2024")
	assert.Contains(t, msg.HTML, "Mason &lt;b&gt;")
	assert.Contains(t, msg.Text, "mason4521")
}

func TestOfferLetterWithoutPassword(t *testing.T) {
	msg, err := OfferLetter{Company: "C", Position: "Worker", Username: "u"}.Render("x@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "the one you chose")
	assert.NotContains(t, msg.Text, "password is")
}

func TestNewWithoutSMTPLogsOnly(t *testing.T) {
	m := New(&config.Config{})
	assert.IsType(t, &LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.c", Subject: "s"}))
}

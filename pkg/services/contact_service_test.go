package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/repository"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func newTestContactService(t *testing.T, mailer Mailer) (*ContactService, repository.InquiryRepo) {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewInquiryRepository(db)
	return NewContactService(repo, mailer, "studio@example.com"), repo
}

func TestContactSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and notifies", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc, repo := newTestContactService(t, mailer)

		inquiry, err := svc.Submit(ctx, models.InquiryForm{
			Name:    "  Ada Lovelace ",
			Email:   "ada@example.com",
			Message: "Spring campaign, 12 stills",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", inquiry.Name)

		stored, err := repo.GetByID(ctx, inquiry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Spring campaign, 12 stills", stored.Message)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "studio@example.com", mailer.sent[0].to)
		assert.Equal(t, "New inquiry from Ada Lovelace", mailer.sent[0].subject)
		assert.Contains(t, mailer.sent[0].body, "ada@example.com")
		assert.Contains(t, mailer.sent[0].body, inquiry.ID)
	})

	t.Run("invalid form is not stored", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc, repo := newTestContactService(t, mailer)

		_, err := svc.Submit(ctx, models.InquiryForm{Name: " ", Email: "nope", Message: "hi"})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidInquiry)

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Name is required", verr.Fields["name"])
		assert.Equal(t, "Invalid email address", verr.Fields["email"])

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, mailer.sent)
	})

	t.Run("mail failure does not fail submission", func(t *testing.T) {
		svc, repo := newTestContactService(t, &fakeMailer{err: errors.New("relay down")})

		_, err := svc.Submit(ctx, models.InquiryForm{Name: "Grace", Email: "grace@example.com", Message: "Hello"})
		require.NoError(t, err)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("without mailer", func(t *testing.T) {
		svc, _ := newTestContactService(t, nil)
		_, err := svc.Submit(ctx, models.InquiryForm{Name: "Grace", Email: "grace@example.com", Message: "Hello"})
		require.NoError(t, err)

		recent, err := svc.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("studio@example.com", "to@example.com", "Hi\r\nBcc: evil@example.com", "<p>x</p>"))

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "<p>x</p>", body)
	assert.Contains(t, head, "From: studio@example.com\r\n")
	assert.Contains(t, head, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, head, "\r\nBcc:")
}

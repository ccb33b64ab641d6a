package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/studytrail/internal/notify"
	"github.com/rpggio/studytrail/internal/platform/brevo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mailer struct {
	mock.Mock
}

func (m *mailer) Send(ctx context.Context, req brevo.SendEmailRequest) (*brevo.SendEmailResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*brevo.SendEmailResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNotifier_LessonCompleted(t *testing.T) {
	ctx := context.Background()
	m := &mailer{}
	m.On("Send", ctx, mock.MatchedBy(func(req brevo.SendEmailRequest) bool {
		return req.To[0].Email == "me@example.com" &&
			req.To[0].Name == "FAANG Student" &&
			req.Subject == "🎉 Lesson Complete: Two Pointers"
	})).Return(&brevo.SendEmailResult{MessageID: "m1"}, nil)

	n, err := notify.New(m, notify.Config{Recipient: "me@example.com"}, nil)
	require.NoError(t, err)
	require.NoError(t, n.LessonCompleted(ctx, "Two Pointers", 4))
	m.AssertExpectations(t)
}

func TestNotifier_PropagatesFailure(t *testing.T) {
	ctx := context.Background()
	m := &mailer{}
	m.On("Send", ctx, mock.Anything).Return(nil, errors.New("HTTP 401"))

	n, err := notify.New(m, notify.Config{Recipient: "me@example.com"}, nil)
	require.NoError(t, err)
	require.ErrorContains(t, n.StreakReminder(ctx, 3), "HTTP 401")
}

func TestNotifier_NoRecipient(t *testing.T) {
	n, err := notify.New(&mailer{}, notify.Config{}, nil)
	require.NoError(t, err)
	require.ErrorIs(t, n.WeeklyProgress(context.Background(), 1, 2, 3), notify.ErrNoRecipient)
}

func TestTemplates(t *testing.T) {
	tpl, err := notify.NewTemplates("https://study.example.com")
	require.NoError(t, err)

	email, err := tpl.LessonCompleted("Heaps <& Tries>", 5)
	require.NoError(t, err)
	require.Contains(t, email.HTML, "Heaps &lt;&amp; Tries&gt;")
	require.Contains(t, email.HTML, "5 Day Streak!")
	require.Contains(t, email.HTML, `href="https://study.example.com"`)
	require.Contains(t, email.HTML, "linear-gradient(135deg, #667eea 0%, #764ba2 100%)")

	email, err = tpl.StreakReminder(7, "")
	require.NoError(t, err)
	require.Equal(t, "🔥 Don't break your 7-day streak!", email.Subject)
	require.Contains(t, email.HTML, "Hey Champion!")

	email, err = tpl.WeeklyProgress(3, 4.5, 2)
	require.NoError(t, err)
	require.Equal(t, "📊 Your Weekly FAANG Prep Progress", email.Subject)
	require.Contains(t, email.HTML, "4.5h")

	email, err = tpl.Achievement("Week-Long Streak Master!", "Seven days in a row!")
	require.NoError(t, err)
	require.Equal(t, "🏆 Achievement Unlocked: Week-Long Streak Master!", email.Subject)
	require.Contains(t, email.HTML, "Seven days in a row!")
}

package cli_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pocketchat/internal/cli"
	"pocketchat/internal/interfaces/mocks"
	"pocketchat/internal/model"
	"pocketchat/internal/render"
	"pocketchat/internal/service"
)

// scriptedReader returns the given lines in order, then io.EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func setupREPL(t *testing.T) (*cli.REPL, *mocks.MockSessionService, *mocks.MockModelService, *bytes.Buffer) {
	var out bytes.Buffer
	session := mocks.NewMockSessionService(t)
	models := mocks.NewMockModelService(t)
	repl := cli.New(render.NewTerminal(80, false), &out)
	repl.Attach(session, models)
	return repl, session, models, &out
}

func TestREPL_SendsMessages(t *testing.T) {
	repl, session, _, out := setupREPL(t)
	session.On("SendMessage", mock.Anything, "2+2?").Return(nil).Once()

	in := &scriptedReader{lines: []string{"2+2?", "/quit"}}
	require.NoError(t, repl.Run(context.Background(), in))

	assert.Contains(t, out.String(), "Type /help")
}

func TestREPL_SendWhileReplyPending(t *testing.T) {
	repl, session, _, out := setupREPL(t)
	session.On("SendMessage", mock.Anything, "again").Return(service.ErrReplyPending).Once()

	_, err := repl.Execute(context.Background(), "again")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Still waiting for the previous reply.")
}

func TestREPL_MultiLineInput(t *testing.T) {
	repl, session, _, _ := setupREPL(t)
	session.On("SendMessage", mock.Anything, "first line\nsecond line").Return(nil).Once()

	in := &scriptedReader{lines: []string{`first line\`, "second line"}}
	require.NoError(t, repl.Run(context.Background(), in))

	assert.Equal(t, []string{"you> ", "...> ", "you> "}, in.prompts)
}

func TestREPL_Commands(t *testing.T) {
	ctx := context.Background()

	t.Run("/new", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		session.On("CreateNewChat", mock.Anything).Return(&model.Chat{ID: "n"}, nil).Once()

		quit, err := repl.Execute(ctx, "/new")
		require.NoError(t, err)
		assert.False(t, quit)
	})

	t.Run("/open by list index", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		repl.ChatListChanged([]model.Chat{{ID: "b", Timestamp: 2}, {ID: "a", Timestamp: 1}}, "b")
		session.On("OpenChat", mock.Anything, "a").Return(true, nil).Once()

		_, err := repl.Execute(ctx, "/open 2")
		require.NoError(t, err)
	})

	t.Run("/open unknown chat", func(t *testing.T) {
		repl, session, _, out := setupREPL(t)
		session.On("OpenChat", mock.Anything, "ghost").Return(false, nil).Once()

		_, err := repl.Execute(ctx, "/open ghost")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "No chat ghost")
	})

	t.Run("/rename targets the current chat", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		session.On("Current").Return(&model.Chat{ID: "c1"}).Once()
		session.On("RenameChat", mock.Anything, "c1", "Groceries list").Return(nil).Once()

		_, err := repl.Execute(ctx, "/rename Groceries list")
		require.NoError(t, err)
	})

	t.Run("/delete defaults to the current chat", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		repl.ChatListChanged([]model.Chat{{ID: "c1"}}, "c1")
		session.On("DeleteChat", mock.Anything, "c1").Return(nil).Once()

		_, err := repl.Execute(ctx, "/delete")
		require.NoError(t, err)
	})

	t.Run("/model passes validation errors through", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		session.On("SetModel", mock.Anything, "claude").Return(assert.AnError).Once()

		_, err := repl.Execute(ctx, "/model claude")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("/models marks the active model", func(t *testing.T) {
		repl, session, models, out := setupREPL(t)
		models.On("List", mock.Anything).Return([]service.ModelInfo{{Name: "gpt-3.5-turbo", Default: true}, {Name: "gpt-4"}}, nil).Once()
		session.On("Current").Return(&model.Chat{ID: "c1", Model: "gpt-4"}).Once()

		_, err := repl.Execute(ctx, "/models")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "  gpt-3.5-turbo (default)")
		assert.Contains(t, out.String(), "* gpt-4")
	})

	t.Run("/list", func(t *testing.T) {
		repl, _, _, out := setupREPL(t)
		repl.ChatListChanged([]model.Chat{
			{ID: "b", Title: "Second", Timestamp: 2},
			{ID: "a", Messages: []model.Message{{Role: model.RoleUser, Content: "hi"}}, Timestamp: 1},
		}, "a")

		_, err := repl.Execute(ctx, "/list")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "   1. Second (0 messages")
		assert.Contains(t, out.String(), "*  2. hi (1 messages")
	})

	t.Run("/quit", func(t *testing.T) {
		repl, _, _, _ := setupREPL(t)
		quit, err := repl.Execute(ctx, "/quit")
		require.NoError(t, err)
		assert.True(t, quit)
	})

	t.Run("Unknown command", func(t *testing.T) {
		repl, _, _, out := setupREPL(t)
		_, err := repl.Execute(ctx, "/frobnicate")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Unknown command /frobnicate")
	})
}

func TestREPL_ClearAsksForConfirmation(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		repl, session, _, _ := setupREPL(t)
		session.On("ClearAll", mock.Anything).Return(nil).Once()

		in := &scriptedReader{lines: []string{"/clear", "y", "/quit"}}
		require.NoError(t, repl.Run(context.Background(), in))
	})

	t.Run("Declined", func(t *testing.T) {
		repl, _, _, out := setupREPL(t)

		in := &scriptedReader{lines: []string{"/clear", "n"}}
		require.NoError(t, repl.Run(context.Background(), in))
		assert.Contains(t, out.String(), "Cancelled.")
	})
}

func TestREPL_View(t *testing.T) {
	repl, _, _, out := setupREPL(t)
	chat := &model.Chat{ID: "c1", Model: "gpt-4", Messages: []model.Message{}}

	repl.MessagesChanged(chat)
	assert.Contains(t, out.String(), "== New chat [gpt-4] ==")

	chat.Messages = append(chat.Messages, model.Message{Role: model.RoleUser, Content: "2+2?"})
	out.Reset()
	repl.MessagesChanged(chat)
	assert.Empty(t, out.String(), "typed input is not echoed")

	chat.Messages = append(chat.Messages, model.Message{Role: model.RoleAssistant, Content: "4"})
	repl.MessagesChanged(chat)
	assert.Contains(t, out.String(), "4")

	other := &model.Chat{ID: "c2", Title: "Other", Model: "gpt-4", Messages: []model.Message{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
	}}
	out.Reset()
	repl.MessagesChanged(other)
	assert.Contains(t, out.String(), "== Other [gpt-4] ==")
	assert.Contains(t, out.String(), "you> hello")
	assert.Contains(t, out.String(), "hi")
}

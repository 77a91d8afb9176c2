// Package cli is the interactive terminal client for the chat session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"

	"pocketchat/internal/interfaces"
	"pocketchat/internal/model"
	"pocketchat/internal/render"
	"pocketchat/internal/service"
)

const (
	promptInput    = "you> "
	promptContinue = "...> "
)

const helpText = `Type a message and press Enter to send it. End a line with \ to continue on the next line.

  /new              start a new chat
  /list             list chats, most recent first
  /open <n|id>      switch to a chat
  /rename <title>   rename the current chat
  /delete [n|id]    delete a chat (default: the current one)
  /clear            delete every chat
  /model <name>     use another model for the current chat
  /models           list available models
  /help             show this help
  /quit             leave
`

// LineReader reads one line of user input. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// REPL drives a session from a terminal. It is also the session's view:
// new messages are printed as they are appended.
type REPL struct {
	term *render.Terminal
	out  io.Writer

	session interfaces.SessionService
	models  interfaces.ModelService
	in      LineReader

	mu      sync.Mutex
	chats   []model.Chat
	current string
	shownID string
	shown   int
}

func New(term *render.Terminal, out io.Writer) *REPL {
	return &REPL{term: term, out: out}
}

// Attach sets the services the REPL drives. The session is created with the
// REPL as its view, so it can only be attached afterwards.
func (r *REPL) Attach(session interfaces.SessionService, models interfaces.ModelService) {
	r.session = session
	r.models = models
}

// ChatListChanged implements service.View.
func (r *REPL) ChatListChanged(chats []model.Chat, currentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = chats
	r.current = currentID
}

// MessagesChanged implements service.View. Switching chats replays the whole
// history; otherwise only new assistant messages are printed, since the user
// has already seen what they typed.
func (r *REPL) MessagesChanged(chat *model.Chat) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID != r.shownID {
		r.shownID = chat.ID
		r.shown = 0
		fmt.Fprintf(r.out, "\n== %s [%s] ==\n", chat.DisplayTitle(), chat.Model)
		for _, msg := range chat.Messages {
			r.printMessage(msg)
		}
		r.shown = len(chat.Messages)
		return
	}

	if r.shown > len(chat.Messages) {
		r.shown = 0
	}
	for _, msg := range chat.Messages[r.shown:] {
		if msg.Role == model.RoleAssistant {
			r.printMessage(msg)
		}
	}
	r.shown = len(chat.Messages)
}

func (r *REPL) printMessage(msg model.Message) {
	if msg.Role == model.RoleUser {
		fmt.Fprintf(r.out, "%s%s\n", promptInput, msg.Content)
		return
	}
	fmt.Fprintln(r.out, strings.TrimRight(r.term.Render(msg.Content), "\n"))
	fmt.Fprintln(r.out)
}

// Run reads input until /quit, EOF or Ctrl+C.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	if r.session == nil {
		return errors.New("cli: no session attached")
	}
	r.in = in
	fmt.Fprintln(r.out, "Type /help for commands.")

	for {
		input, err := r.readInput()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		quit, err := r.Execute(ctx, input)
		if err != nil {
			fmt.Fprintf(r.out, "[error] %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// readInput joins lines ending in a backslash into one multi-line message.
func (r *REPL) readInput() (string, error) {
	var lines []string
	prompt := promptInput
	for {
		line, err := r.in.Prompt(prompt)
		if err != nil {
			return "", err
		}
		if body, ok := strings.CutSuffix(line, `\`); ok {
			lines = append(lines, body)
			prompt = promptContinue
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}

// Execute runs a slash command or sends input as a message.
func (r *REPL) Execute(ctx context.Context, input string) (quit bool, err error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false, nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return false, r.send(ctx, input)
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprint(r.out, helpText)
	case "/new":
		_, err = r.session.CreateNewChat(ctx)
	case "/list":
		r.printList()
	case "/open":
		err = r.open(ctx, arg)
	case "/rename":
		err = r.rename(ctx, arg)
	case "/delete":
		err = r.delete(ctx, arg)
	case "/clear":
		err = r.clear(ctx)
	case "/model":
		err = r.setModel(ctx, arg)
	case "/models":
		err = r.printModels(ctx)
	default:
		fmt.Fprintf(r.out, "Unknown command %s. Type /help for commands.\n", cmd)
	}
	return false, err
}

func (r *REPL) send(ctx context.Context, text string) error {
	fmt.Fprintln(r.out, "...")
	start := time.Now()
	if err := r.session.SendMessage(ctx, text); err != nil {
		if errors.Is(err, service.ErrReplyPending) {
			fmt.Fprintln(r.out, "Still waiting for the previous reply.")
			return nil
		}
		return err
	}
	fmt.Fprintf(r.out, "(%s)\n", time.Since(start).Round(100*time.Millisecond))
	return nil
}

func (r *REPL) printList() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.chats) == 0 {
		fmt.Fprintln(r.out, "No chats.")
		return
	}
	for i, chat := range r.chats {
		marker := " "
		if chat.ID == r.current {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %2d. %s (%d messages, %s)\n", marker, i+1, chat.DisplayTitle(), len(chat.Messages),
			time.UnixMilli(chat.Timestamp).Format("2006-01-02 15:04"))
	}
}

// resolve maps a 1-based list index or a chat id to a chat id.
func (r *REPL) resolve(arg string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if arg == "" {
		return r.current
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(r.chats) {
		return r.chats[n-1].ID
	}
	return arg
}

func (r *REPL) open(ctx context.Context, arg string) error {
	if arg == "" {
		fmt.Fprintln(r.out, "Usage: /open <n|id>")
		return nil
	}
	found, err := r.session.OpenChat(ctx, r.resolve(arg))
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(r.out, "No chat %s.\n", arg)
	}
	return nil
}

func (r *REPL) rename(ctx context.Context, title string) error {
	if title == "" {
		fmt.Fprintln(r.out, "Usage: /rename <title>")
		return nil
	}
	current := r.session.Current()
	if current == nil {
		return nil
	}
	if err := r.session.RenameChat(ctx, current.ID, title); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Renamed to %q.\n", title)
	return nil
}

func (r *REPL) delete(ctx context.Context, arg string) error {
	chatID := r.resolve(arg)
	if chatID == "" {
		return nil
	}
	return r.session.DeleteChat(ctx, chatID)
}

func (r *REPL) clear(ctx context.Context) error {
	answer, err := r.in.Prompt("Delete all chats? [y/N] ")
	if err != nil {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Fprintln(r.out, "Cancelled.")
		return nil
	}
	return r.session.ClearAll(ctx)
}

func (r *REPL) setModel(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(r.out, "Usage: /model <name>")
		return nil
	}
	if err := r.session.SetModel(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Using %s.\n", name)
	return nil
}

func (r *REPL) printModels(ctx context.Context) error {
	models, err := r.models.List(ctx)
	if err != nil {
		return err
	}
	active := ""
	if current := r.session.Current(); current != nil {
		active = current.Model
	}
	for _, m := range models {
		marker := " "
		if m.Name == active {
			marker = "*"
		}
		suffix := ""
		if m.Default {
			suffix = " (default)"
		}
		fmt.Fprintf(r.out, "%s %s%s\n", marker, m.Name, suffix)
	}
	return nil
}

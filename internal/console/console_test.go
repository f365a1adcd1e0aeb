package console

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
	"github.com/EzhovAndrew/smtp-client/internal/mailer"
	"github.com/EzhovAndrew/smtp-client/internal/query"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, cfg configuration.SMTPConfig, mail mailer.Mail) error {
	args := m.Called(ctx, cfg, mail)
	return args.Error(0)
}

func newTestConsole(t *testing.T) (*Console, *mockSender, *bytes.Buffer) {
	t.Helper()
	cfg := configuration.DefaultConfig()
	cfg.Client.FrameInterval = time.Millisecond
	sender := &mockSender{}
	out := &bytes.Buffer{}
	return New(cfg, "", sender, out), sender, out
}

func run(c *Console, lines ...string) {
	for _, line := range lines {
		c.ProcessCommand(context.Background(), line)
	}
}

func waitSettled(t *testing.T, c *Console) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.Frame()
		return c.submit.IsReady()
	}, 2*time.Second, time.Millisecond)
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	c := New(nil, "", &mockSender{}, &bytes.Buffer{})

	assert.Equal(t, *configuration.DefaultConfig(), c.config)
	assert.True(t, c.submit.IsReady())
}

func TestProcessCommand_SetsSettingsAndDraft(t *testing.T) {
	c, _, out := newTestConsole(t)

	run(c,
		"FROM Jane Doe <jane@example.com>",
		"host smtp.example.com",
		"PORT 2525",
		"USER jane",
		"PASS s3cret",
		"TLS Mandatory",
		"TO john@example.com",
		"SUBJECT  Lunch   tomorrow?",
		`BODY Hi John,\nnoon works.`,
	)

	assert.Empty(t, out.String())
	assert.Equal(t, "Jane Doe <jane@example.com>", c.config.SMTP.From)
	assert.Equal(t, "smtp.example.com", c.config.SMTP.Host)
	assert.Equal(t, 2525, c.config.SMTP.Port)
	assert.Equal(t, "jane", c.config.SMTP.Username)
	assert.Equal(t, "s3cret", c.config.SMTP.Password)
	assert.Equal(t, "mandatory", c.config.SMTP.TLSPolicy)
	assert.Equal(t, mailer.Mail{
		To:      "john@example.com",
		Subject: "Lunch   tomorrow?",
		Body:    "Hi John,\nnoon works.",
	}, c.draft)
}

func TestProcessCommand_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"port not a number", "PORT abc", `invalid port "abc"`},
		{"port out of range", "PORT 70000", `invalid port "70000"`},
		{"port missing", "PORT", "PORT requires exactly one argument"},
		{"host missing", "HOST", "HOST requires exactly one argument"},
		{"from missing", "FROM", "FROM requires a mailbox"},
		{"to missing", "TO", "TO requires a mailbox"},
		{"tls unknown", "TLS sometimes", `unknown TLS policy "sometimes"`},
		{"pass without reader", "PASS", "PASS requires an argument"},
		{"unknown command", "FLY away", "Unknown command: FLY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, out := newTestConsole(t)
			before := c.config

			exit := c.ProcessCommand(context.Background(), tt.input)

			assert.False(t, exit)
			assert.Contains(t, out.String(), tt.expected)
			assert.Equal(t, before, c.config)
		})
	}
}

func TestProcessCommand_PassPrompt(t *testing.T) {
	c, _, _ := newTestConsole(t)
	c.SetPasswordReader(func(prompt string) ([]byte, error) {
		assert.Equal(t, "password: ", prompt)
		return []byte("typed"), nil
	})

	run(c, "PASS")

	assert.Equal(t, "typed", c.config.SMTP.Password)
}

func TestProcessCommand_PassPromptError(t *testing.T) {
	c, _, out := newTestConsole(t)
	c.SetPasswordReader(func(string) ([]byte, error) {
		return nil, errors.New("interrupted")
	})

	run(c, "PASS")

	assert.Empty(t, c.config.SMTP.Password)
	assert.Contains(t, out.String(), "Error reading password: interrupted")
}

func TestProcessCommand_Exit(t *testing.T) {
	c, _, out := newTestConsole(t)

	assert.True(t, c.ProcessCommand(context.Background(), "exit"))
	assert.True(t, c.ProcessCommand(context.Background(), "QUIT"))
	assert.False(t, c.ProcessCommand(context.Background(), "   "))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestProcessCommand_Help(t *testing.T) {
	c, _, out := newTestConsole(t)

	run(c, "HELP")
	assert.Contains(t, out.String(), "Available commands:")
	for name := range commands {
		assert.Contains(t, out.String(), name)
	}

	out.Reset()
	run(c, "help send")
	assert.Contains(t, out.String(), "Command: SEND")
	assert.Contains(t, out.String(), "Usage: SEND")
	assert.Contains(t, out.String(), "the result shows at the next prompt or on WAIT")

	out.Reset()
	run(c, "HELP nope")
	assert.Contains(t, out.String(), "Unknown command: NOPE")
}

func TestProcessCommand_ShowMasksPassword(t *testing.T) {
	c, _, out := newTestConsole(t)
	run(c, "HOST smtp.example.com", "PASS hunter2", "BODY line one\\nline two")

	run(c, "SHOW")

	assert.Contains(t, out.String(), "smtp.example.com")
	assert.Contains(t, out.String(), "********")
	assert.NotContains(t, out.String(), "hunter2")
	assert.Contains(t, out.String(), "    line one\n    line two")
	assert.Contains(t, out.String(), "To:       (not set)")
}

func TestStatus_Idle(t *testing.T) {
	c, _, out := newTestConsole(t)

	run(c, "STATUS")

	assert.Equal(t, msgIdle+"\n", out.String())
}

func TestSend_Succeeds(t *testing.T) {
	c, sender, out := newTestConsole(t)
	run(c, "FROM jane@example.com", "HOST smtp.example.com", "TO john@example.com", "SUBJECT hi", "BODY hello")

	expectedCfg := c.config.SMTP
	expectedMail := mailer.Mail{To: "john@example.com", Subject: "hi", Body: "hello"}
	sender.On("Send", mock.Anything, expectedCfg, expectedMail).Return(nil).Once()

	run(c, "SEND")
	assert.Contains(t, out.String(), msgSending)
	assert.Equal(t, query.StatusRunning, c.submit.State().Status)

	waitSettled(t, c)

	assert.Equal(t, 1, strings.Count(out.String(), msgDelivered))
	for range 5 {
		assert.False(t, c.Frame(), "a final state is rendered only once")
	}
	sender.AssertExpectations(t)
}

func TestSend_Fails(t *testing.T) {
	c, sender, out := newTestConsole(t)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).Once()

	run(c, "SEND")
	waitSettled(t, c)

	assert.Contains(t, out.String(), msgFailed)
	assert.Contains(t, out.String(), "connection refused")

	out.Reset()
	run(c, "STATUS")
	assert.Equal(t, msgFailed+"\n  connection refused\n", out.String())
	sender.AssertExpectations(t)
}

func TestSend_JobContextHasTimeout(t *testing.T) {
	c, sender, _ := newTestConsole(t)
	c.config.SMTP.Timeout = time.Minute
	deadlines := make(chan time.Time, 1)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, ok := args.Get(0).(context.Context).Deadline()
			assert.True(t, ok, "send context must carry a deadline")
			deadlines <- deadline
		}).
		Return(nil).Once()

	submitted := time.Now()
	run(c, "SEND")
	waitSettled(t, c)

	deadline := <-deadlines
	assert.WithinDuration(t, submitted.Add(time.Minute), deadline, 5*time.Second)
	sender.AssertExpectations(t)
}

func TestSend_NonPositiveTimeoutHasNoDeadline(t *testing.T) {
	c, sender, _ := newTestConsole(t)
	c.config.SMTP.Timeout = 0
	sender.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return !ok
	}), mock.Anything, mock.Anything).Return(nil).Once()

	run(c, "SEND")
	waitSettled(t, c)

	assert.True(t, c.submit.State().IsSucceeded())
	sender.AssertExpectations(t)
}

func TestSend_RejectedWhileRunning(t *testing.T) {
	c, sender, out := newTestConsole(t)
	release := make(chan struct{})
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).Once()

	run(c, "SEND")
	run(c, "SEND")

	assert.Contains(t, out.String(), "already being sent")

	close(release)
	waitSettled(t, c)
	assert.True(t, c.submit.State().IsSucceeded())
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSend_JobUsesSnapshot(t *testing.T) {
	c, sender, _ := newTestConsole(t)
	release := make(chan struct{})
	run(c, "HOST first.example.com", "TO first@example.com")

	sender.On("Send", mock.Anything,
		mock.MatchedBy(func(cfg configuration.SMTPConfig) bool { return cfg.Host == "first.example.com" }),
		mailer.Mail{To: "first@example.com"},
	).Run(func(mock.Arguments) { <-release }).Return(nil).Once()

	run(c, "SEND", "HOST second.example.com", "TO second@example.com")
	close(release)
	waitSettled(t, c)

	assert.True(t, c.submit.State().IsSucceeded())
	sender.AssertExpectations(t)
}

func TestSend_AgainAfterCompletion(t *testing.T) {
	c, sender, out := newTestConsole(t)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	run(c, "SEND")
	waitSettled(t, c)
	run(c, "SEND")
	waitSettled(t, c)

	assert.Contains(t, out.String(), msgFailed)
	assert.Contains(t, out.String(), msgDelivered)
	assert.True(t, c.submit.State().IsSucceeded())
}

func TestSend_PanickingSenderFails(t *testing.T) {
	c, sender, out := newTestConsole(t)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Panic("smtp client exploded").Once()

	run(c, "SEND")
	waitSettled(t, c)

	assert.ErrorIs(t, c.submit.State().Err, query.ErrTaskAborted)
	assert.Contains(t, out.String(), "smtp client exploded")
}

func TestWait_RendersUntilDone(t *testing.T) {
	c, sender, out := newTestConsole(t)
	release := make(chan struct{})
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).Once()

	run(c, "SEND")
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	run(c, "WAIT")

	assert.True(t, c.submit.State().IsSucceeded())
	assert.Contains(t, out.String(), "| "+msgSending)
	assert.True(t, strings.HasSuffix(out.String(), msgDelivered+"\n"))
}

func TestWait_ContextCancelled(t *testing.T) {
	c, sender, out := newTestConsole(t)
	release := make(chan struct{})
	defer close(release)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil).Once()
	run(c, "SEND")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, c.submit.State().IsRunning())

	c.ProcessCommand(ctx, "WAIT")
	assert.Contains(t, out.String(), "Stopped waiting")
}

func TestWait_WhenIdle(t *testing.T) {
	c, _, out := newTestConsole(t)

	run(c, "WAIT")

	assert.Equal(t, msgIdle+"\n", out.String())
}

func TestSave_WritesConfig(t *testing.T) {
	c, _, out := newTestConsole(t)
	path := filepath.Join(t.TempDir(), "saved.yaml")
	run(c, "HOST smtp.example.com", "PORT 465")

	run(c, "SAVE "+path)

	assert.Contains(t, out.String(), "Settings saved to "+path)
	loaded, err := configuration.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", loaded.SMTP.Host)
	assert.Equal(t, 465, loaded.SMTP.Port)
	assert.Equal(t, path, c.configPath)
}

func TestSave_Error(t *testing.T) {
	c, _, out := newTestConsole(t)

	run(c, "SAVE "+filepath.Join(t.TempDir(), "missing", "dir", "config.yaml"))

	assert.Contains(t, out.String(), "Error saving config")
}

func TestRunFallback_Script(t *testing.T) {
	c, sender, out := newTestConsole(t)
	sender.On("Send", mock.Anything, mock.Anything, mailer.Mail{To: "john@example.com", Subject: "hi"}).
		Return(nil).Once()
	script := strings.Join([]string{
		"TO john@example.com",
		"SUBJECT hi",
		"",
		"SEND",
		"WAIT",
		"EXIT",
		"SHOW",
	}, "\n")

	err := c.RunFallback(context.Background(), strings.NewReader(script))

	require.NoError(t, err)
	assert.Contains(t, out.String(), msgSending)
	assert.Contains(t, out.String(), msgDelivered)
	assert.Contains(t, out.String(), "Goodbye!")
	assert.NotContains(t, out.String(), "SMTP settings:", "commands after EXIT must not run")
	sender.AssertExpectations(t)
}

func TestRunFallback_EndOfInput(t *testing.T) {
	c, _, _ := newTestConsole(t)

	err := c.RunFallback(context.Background(), strings.NewReader("HOST localhost"))

	require.NoError(t, err)
	assert.Equal(t, "localhost", c.config.SMTP.Host)
}

func TestRunFallback_CancelledContext(t *testing.T) {
	c, _, out := newTestConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.RunFallback(ctx, strings.NewReader("HELP\n"))

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestCreateCompleterItems(t *testing.T) {
	items := createCompleterItems()

	assert.Len(t, items, len(commands))
}

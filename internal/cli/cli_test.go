package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.DefaultFormat = "json"
	cfg.App.SupportedFormats = []string{"json", "text", "markdown", "console"}
	cfg.App.MaxFileSize = 1 << 20
	return cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(context.Background(), testConfig(), testLogger)
	return out.String(), err
}

func writeProfile(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(profile.DefaultProfile())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestParseFieldUpdates(t *testing.T) {
	updates, err := parseFieldUpdates([]string{
		"workExperience.years=6",
		"extracurriculars.addActivity=Board member",
		`career.goals="Product leadership"`,
	})
	require.NoError(t, err)
	require.Len(t, updates, 3)

	p := profile.DefaultProfile().Apply(updates...)
	assert.Equal(t, 6, p.WorkExperience.Years)
	assert.Contains(t, p.Extracurriculars.Activities, "Board member")
	assert.Equal(t, "Product leadership", p.Career.Goals)

	none, err := parseFieldUpdates(nil)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestParseFieldUpdatesErrors(t *testing.T) {
	_, err := parseFieldUpdates([]string{"workExperience.years"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "missing '=': %v", err)

	_, err = parseFieldUpdates([]string{"academics.shoeSize=9"})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownField, appErr.Code)
}

func TestParseSchoolIDs(t *testing.T) {
	ids, err := parseSchoolIDs([]string{"1", "3"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)

	_, err = parseSchoolIDs([]string{"wharton"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestScoreCommand(t *testing.T) {
	path := writeProfile(t)

	out, err := execute(t, "score", path, "--format", "json", "--set", "workExperience.years=8")
	require.NoError(t, err)

	var report profile.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)

	updated := profile.DefaultProfile()
	updated.WorkExperience.Years = 8
	assert.Equal(t, profile.Analyze(updated).Scores, report.Scores)
}

func TestScoreCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "score", writeProfile(t), "--format", "pdf")
	assert.Error(t, err)
}

func TestSchoolsCommand(t *testing.T) {
	out, err := execute(t, "schools", "--format", "json", "--location", "UK")
	require.NoError(t, err)

	var results []schools.School
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 1)
	assert.Equal(t, "London Business School", results[0].Name)
}

func TestSchoolsCommandByName(t *testing.T) {
	t.Cleanup(func() { schoolsFilter.Name = "" })

	out, err := execute(t, "schools", "--format", "json", "--location", "", "--name", "business school")
	require.NoError(t, err)

	var results []schools.School
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 2)
	assert.Equal(t, "Harvard Business School", results[0].Name)
	assert.Equal(t, "London Business School", results[1].Name)
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "1", "3", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "INSEAD")
	assert.Contains(t, out, "Harvard Business School")

	_, err = execute(t, "compare", "1", "1", "--format", "text")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict), "duplicate ids: %v", err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mbaadvisor version "+Version)
}

type fakeConversation struct {
	replies  []chat.Reply
	messages []string
	cleared  []string
}

func (f *fakeConversation) Reply(ctx context.Context, sessionID, text string) (chat.Reply, error) {
	f.messages = append(f.messages, text)
	reply := f.replies[0]
	f.replies = f.replies[1:]
	if sessionID != "" {
		reply.SessionID = sessionID
	}
	return reply, nil
}

func (f *fakeConversation) Clear(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func assistant(content string) types.Message {
	return types.Message{Role: types.RoleAssistant, Content: content}
}

func TestChatSession(t *testing.T) {
	fake := &fakeConversation{replies: []chat.Reply{
		{SessionID: "s-1", Message: assistant("INSEAD is a one-year program.")},
		{SessionID: "s-2", Message: assistant("Hello again.")},
	}}
	var out bytes.Buffer
	session := &chatSession{advisor: fake, format: "text", out: &out, logger: testLogger}

	input := strings.Join([]string{"Tell me about INSEAD", "", "/reset", "Hi", "/quit", "ignored"}, "\n")
	require.NoError(t, session.run(context.Background(), strings.NewReader(input)))

	assert.Equal(t, []string{"Tell me about INSEAD", "Hi"}, fake.messages)
	assert.Equal(t, []string{"s-1"}, fake.cleared)
	assert.Equal(t, "s-2", session.id)
	assert.Contains(t, out.String(), chat.ChatHeader)
	assert.Contains(t, out.String(), "INSEAD is a one-year program.")
	assert.Contains(t, out.String(), "Started a new conversation.")
}

func TestChatSessionWordLimit(t *testing.T) {
	fake := &fakeConversation{replies: []chat.Reply{
		{SessionID: "s-1", Message: assistant(chat.WordBreakMessage), WordLimitReached: true},
	}}
	var out bytes.Buffer
	session := &chatSession{advisor: fake, format: "text", out: &out, logger: testLogger}

	require.NoError(t, session.run(context.Background(), strings.NewReader("One more question\n")))

	assert.Equal(t, []string{"s-1"}, fake.cleared)
	assert.Empty(t, session.id)
}

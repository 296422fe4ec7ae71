package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/common"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/formatters"
	"mbaadvisor/internal/server"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the admissions assistant",
	Long: `Chat with the MBA admissions assistant. With --message a single reply is
printed; otherwise an interactive session reads messages from stdin.

In an interactive session, /reset starts a new conversation and /quit exits.
Pass --session to continue a conversation stored in Redis.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var (
	chatConfig    common.CommandConfig
	chatSessionID string
	chatMessage   string
)

func init() {
	addOutputFlags(chatCmd, &chatConfig)
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Session id to continue")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send one message and exit")
}

// conversation is the part of the advisor a chat session needs
type conversation interface {
	Reply(ctx context.Context, sessionID, text string) (chat.Reply, error)
	Clear(ctx context.Context, sessionID string) error
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := cfg.RequireAIKey(); err != nil {
		return err
	}

	if chatSessionID != "" && cfg.Chat.Store != "redis" {
		logger.Warn("Sessions are kept in memory, so --session only continues a conversation within this process",
			"session_id", chatSessionID)
	}

	services, cleanup, err := server.NewServices(cmd.Context(), cfg, Version, logger)
	if err != nil {
		return fmt.Errorf("failed to start chat: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cleanup(ctx)
	}()

	if chatMessage != "" {
		reply, err := services.Advisor.Reply(cmd.Context(), chatSessionID, chatMessage)
		if err != nil {
			return err
		}
		return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(reply, chatConfig)
	}

	session := &chatSession{
		advisor: services.Advisor,
		id:      chatSessionID,
		format:  chatConfig.OutputFormat,
		out:     cmd.OutOrStdout(),
		logger:  logger,
	}
	return session.run(cmd.Context(), cmd.InOrStdin())
}

// chatSession drives an interactive conversation over a reader and writer
type chatSession struct {
	advisor conversation
	id      string
	format  string
	out     io.Writer
	logger  *errors.Logger
}

func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(s.out, "%s\n\n%s\n\n", chat.ChatHeader, chat.InitialMessage)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := s.reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Started a new conversation.")
			continue
		}

		reply, err := s.advisor.Reply(ctx, s.id, line)
		if err != nil {
			return err
		}
		s.id = reply.SessionID

		output, err := formatters.GlobalRegistry.Format(reply, s.format)
		if err != nil {
			return errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Failed to format output as %s", s.format), err)
		}
		fmt.Fprintln(s.out, strings.TrimRight(output, "\n"))

		if reply.WordLimitReached {
			if err := s.reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "\nStarted a new conversation.")
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read chat input", err)
	}
	return ctx.Err()
}

func (s *chatSession) reset(ctx context.Context) error {
	if s.id == "" {
		return nil
	}
	if err := s.advisor.Clear(ctx, s.id); err != nil {
		return err
	}
	s.logger.Debug("Chat session cleared", "session_id", s.id)
	s.id = ""
	return nil
}

var _ conversation = (*chat.Advisor)(nil)

package common

import (
	"context"
	"fmt"
	"io"
	"os"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"
)

// ProfileOperationFunc turns a decoded profile into a printable result.
// Operations that do not call a model return nil usage.
type ProfileOperationFunc[Output any] func(context.Context, profile.Profile) (Output, *ai.TokenUsage, error)

// ProfileCommand describes a file-based profile command
type ProfileCommand struct {
	CommandConfig
	ProfileFile string
	MaxFileSize int64
	Stdout      io.Writer
}

// RunProfileCommand reads the profile file, runs the operation and writes the result
func RunProfileCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmd ProfileCommand,
	operation ProfileOperationFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger, cmd.MaxFileSize)
	stdout := cmd.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	outputHandler := NewOutputHandlerTo(stdout, logger)

	p, err := fileProcessor.ReadProfile(cmd.ProfileFile)
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Debug("Profile loaded",
			"file", cmd.ProfileFile,
			"format", cmd.OutputFormat,
			"activities", len(p.Extracurriculars.Activities))
	}

	result, tokenUsage, err := operation(ctx, p)
	if err != nil {
		return err
	}

	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmd.CommandConfig)
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/common"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [profile-file]",
	Short: "Score an applicant profile",
	Long: `Score an MBA applicant profile across academics, work experience,
extracurriculars and career goals. The profile is read from a JSON or YAML
file. Use --set to change fields before scoring, for example:

  mbaadvisor score profile.yaml --set workExperience.years=6 \
      --set 'extracurriculars.addActivity="Board member"'

Values are parsed as JSON; anything that is not valid JSON is taken as a string.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreConfig  common.CommandConfig
	scoreUpdates []string
)

func init() {
	addOutputFlags(scoreCmd, &scoreConfig)
	scoreCmd.Flags().StringArrayVar(&scoreUpdates, "set", nil, "Field update as field=value (repeatable)")

	_ = scoreCmd.RegisterFlagCompletionFunc("set", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		fields := profile.UpdateFields()
		completions := make([]string, len(fields))
		for i, f := range fields {
			completions[i] = f + "="
		}
		return completions, cobra.ShellCompDirectiveNoSpace
	})
}

// parseFieldUpdates turns field=value flags into profile updates
func parseFieldUpdates(sets []string) ([]profile.Update, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	fieldUpdates := make([]profile.FieldUpdate, 0, len(sets))
	for _, set := range sets {
		field, value, ok := strings.Cut(set, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid update %q, expected field=value", set), nil)
		}

		raw := json.RawMessage(value)
		if !json.Valid(raw) {
			quoted, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			raw = quoted
		}
		fieldUpdates = append(fieldUpdates, profile.FieldUpdate{Field: strings.TrimSpace(field), Value: raw})
	}

	return profile.DecodeUpdates(fieldUpdates)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	updates, err := parseFieldUpdates(scoreUpdates)
	if err != nil {
		return err
	}

	scoreOperation := func(ctx context.Context, p profile.Profile) (profile.Report, *ai.TokenUsage, error) {
		if len(updates) > 0 {
			p = p.Apply(updates...)
			logger.Debug("Applied profile updates", "count", len(updates))
		}
		return profile.Analyze(p), nil, nil
	}

	err = common.RunProfileCommand(cmd.Context(), logger, common.ProfileCommand{
		CommandConfig: scoreConfig,
		ProfileFile:   args[0],
		MaxFileSize:   cfg.App.MaxFileSize,
		Stdout:        cmd.OutOrStdout(),
	}, scoreOperation)
	if err != nil {
		return fmt.Errorf("failed to score profile: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/common"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/types"

	"github.com/spf13/cobra"
)

var adviseCmd = &cobra.Command{
	Use:   "advise [profile-file]",
	Short: "Get written advice on an applicant profile",
	Long: `Score an applicant profile and ask the AI model for a short narrative:
a summary of the profile, the improvements that matter most and a school
strategy. Requires an AI API key.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdvise,
}

var adviseConfig common.CommandConfig

func init() {
	addOutputFlags(adviseCmd, &adviseConfig)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	aiService, err := ai.NewService(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	adviseOperation := func(ctx context.Context, p profile.Profile) (types.ProfileAdvice, *ai.TokenUsage, error) {
		report := profile.Analyze(p)
		logger.Info("Requesting profile advice",
			"overall", report.Scores.Overall,
			"level", report.OverallLevel.Label)
		return aiService.Provider.AdviseProfile(ctx, report)
	}

	err = common.RunProfileCommand(cmd.Context(), logger, common.ProfileCommand{
		CommandConfig: adviseConfig,
		ProfileFile:   args[0],
		MaxFileSize:   cfg.App.MaxFileSize,
		Stdout:        cmd.OutOrStdout(),
	}, adviseOperation)
	if err != nil {
		return fmt.Errorf("failed to advise on profile: %w", err)
	}
	logger.Info("Profile advice completed successfully")
	return nil
}

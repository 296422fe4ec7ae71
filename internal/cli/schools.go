package cli

import (
	"fmt"
	"strconv"

	"mbaadvisor/internal/common"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/schools"

	"github.com/spf13/cobra"
)

var schoolsCmd = &cobra.Command{
	Use:   "schools",
	Short: "Search the business school catalog",
	Long: `List schools from the catalog that match every given filter. The catalog
is the built-in list unless schools.catalogFile is configured.

Program length accepts any, 1-year, 2-year or accelerated. Specializations
match when a school offers at least one of them.`,
	Args: cobra.NoArgs,
	RunE: runSchools,
}

var (
	schoolsConfig  common.CommandConfig
	schoolsFilter  schools.Filter
	schoolsExclude []int
)

func init() {
	addOutputFlags(schoolsCmd, &schoolsConfig)

	flags := schoolsCmd.Flags()
	flags.StringVar(&schoolsFilter.Name, "name", "", "Case-insensitive part of the school name")
	flags.StringVar(&schoolsFilter.Location, "location", "", "Country the school is located in")
	flags.StringVar(&schoolsFilter.ProgramLength, "length", schools.LengthAny, "Program length: any, 1-year, 2-year, accelerated")
	flags.StringSliceVar(&schoolsFilter.Specializations, "specialization", nil, "Specialization to look for (repeatable)")
	flags.IntVar(&schoolsFilter.RankingMax, "ranking-max", schools.DefaultRankingMax, "Worst acceptable ranking")
	flags.IntVar(&schoolsFilter.TuitionMax, "tuition-max", schools.DefaultTuitionMax, "Highest acceptable tuition in USD")
	flags.IntSliceVar(&schoolsExclude, "exclude", nil, "School ids to leave out of the results")

	_ = schoolsCmd.RegisterFlagCompletionFunc("length", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{schools.LengthAny, schools.LengthOneYear, schools.LengthTwoYear, schools.LengthAccelerated}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = schoolsCmd.RegisterFlagCompletionFunc("specialization", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return schools.Specializations, cobra.ShellCompDirectiveNoFileComp
	})
}

func runSchools(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	catalog, err := schools.LoadCatalogOrDefault(cfg.Schools.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load school catalog: %w", err)
	}

	results, err := catalog.Search(schoolsFilter, schoolsExclude)
	if err != nil {
		return err
	}
	logger.Debug("School search completed", "results", len(results), "catalog_size", catalog.Len())

	return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(results, schoolsConfig)
}

var compareCmd = &cobra.Command{
	Use:   "compare [school-id...]",
	Short: "Compare up to three schools side by side",
	Long: `Compare schools by id across basics, admissions, program details and
career outcomes. Use "mbaadvisor schools --format json" to look up ids.`,
	Args: cobra.RangeArgs(1, schools.MaxSelected),
	RunE: runCompare,
}

var compareConfig common.CommandConfig

func init() {
	addOutputFlags(compareCmd, &compareConfig)
}

// parseSchoolIDs converts positional arguments into school ids
func parseSchoolIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("school id must be a number, got %q", arg), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	ids, err := parseSchoolIDs(args)
	if err != nil {
		return err
	}

	catalog, err := schools.LoadCatalogOrDefault(cfg.Schools.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load school catalog: %w", err)
	}

	sel, err := schools.NewSelection(catalog, ids...)
	if err != nil {
		return err
	}

	comparison, err := schools.Compare(catalog, sel)
	if err != nil {
		return err
	}

	return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(comparison, compareConfig)
}

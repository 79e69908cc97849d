package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/esops/internal/app"
	"github.com/tacogips/esops/internal/config"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove leftover staging directories",
	Long: `Remove staging directories left behind by --keep-staging or interrupted
renders.

Examples:
  esops clean
  esops clean --older-than 24h`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

// Clean command flags
var (
	cleanOlderThan time.Duration
	cleanConfig    string
)

func init() {
	cleanCmd.Flags().DurationVar(&cleanOlderThan, FlagOlderThan, 0, DescOlderThan)
	cleanCmd.Flags().StringVar(&cleanConfig, FlagConfig, "", DescConfig)
}

func runClean(cmd *cobra.Command, args []string) error {
	projectDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, projectDir, cleanConfig)
	if err != nil {
		return err
	}

	root, err := config.ExpandPath(cfg.Staging.Dir)
	if err != nil {
		return err
	}

	olderThan := cfg.Staging.MaxAge
	if cmd.Flags().Changed(FlagOlderThan) {
		olderThan = cleanOlderThan
	}

	removed, err := app.Clean(app.CleanOptions{StagingRoot: root, OlderThan: olderThan})
	if err != nil {
		return err
	}

	for _, p := range removed {
		printMuted("removed " + p)
	}
	printSuccess(fmt.Sprintf("Removed %d staging directories from %s", len(removed), root))
	return nil
}

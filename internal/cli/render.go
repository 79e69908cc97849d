package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tacogips/esops/internal/app"
	"github.com/tacogips/esops/internal/component"
	"github.com/tacogips/esops/internal/config"
	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/report"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [component...]",
	Short: "Render components into a project",
	Long: `Render one or more components into the project directory.

Components are rendered in order into a private staging directory. Later
components merge into the output of earlier ones following their toggle
declarations. The project is then updated:

  1. JSON files toggled with mergeJson are deep-merged (incoming keys win)
  2. text files toggled with mergeFile are appended
  3. every other file is copied; if it already exists you are asked first
  4. the managed block in .gitignore and .npmignore lists files not
     published to git

Without arguments, the components listed in esops.toml are rendered.

Examples:
  esops render ./components/base
  esops render ./components/base ./components/lint -C ./my-app
  esops render ./components/base -t ci=true -t "mergeJson:tsconfig.json=true"
  esops render --dry-run`,
	RunE: runRender,
}

// Render command flags
var (
	renderDest        string
	renderToggles     []string
	renderYes         bool
	renderDryRun      bool
	renderKeepStaging bool
	renderConfig      string
)

func init() {
	renderCmd.Flags().StringVarP(&renderDest, FlagDest, "C", ".", DescDest)
	renderCmd.Flags().StringArrayVarP(&renderToggles, FlagToggle, "t", nil, DescToggle)
	renderCmd.Flags().BoolVarP(&renderYes, FlagYes, "y", false, DescYes)
	renderCmd.Flags().BoolVarP(&renderDryRun, FlagDryRun, "d", false, DescDryRun)
	renderCmd.Flags().BoolVar(&renderKeepStaging, FlagKeepStaging, false, DescKeepStaging)
	renderCmd.Flags().StringVar(&renderConfig, FlagConfig, "", DescConfig)
}

func runRender(cmd *cobra.Command, args []string) error {
	dest, err := filepath.Abs(renderDest)
	if err != nil {
		return fmt.Errorf("invalid destination %q: %w", renderDest, err)
	}

	cfg, err := loadConfig(cmd, dest, renderConfig)
	if err != nil {
		return err
	}

	// Toggles: config first, flags on top
	overrides, err := cfg.ToggleOverrides()
	if err != nil {
		return err
	}
	flagToggles, err := parseToggleFlags(renderToggles)
	if err != nil {
		return err
	}
	overrides = overrides.With(flagToggles)

	// Components: arguments resolve against the working directory, configured
	// ones against the project directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	refs, base := args, cwd
	if len(refs) == 0 {
		refs, base = cfg.Components, dest
	}
	if len(refs) == 0 {
		printMarkdown(report.NoComponentsError())
		return errors.New("no components to render")
	}

	components := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := component.Locate(ref, base)
		if err != nil {
			return err
		}
		components = append(components, p)
	}

	stagingRoot, err := config.ExpandPath(cfg.Staging.Dir)
	if err != nil {
		return err
	}

	var confirmer app.Confirmer = newPromptConfirmer()
	if renderYes || cfg.AssumeYes {
		confirmer = app.AlwaysConfirm
	}

	keep := renderKeepStaging || cfg.Staging.Keep
	result, err := app.Render(cmd.Context(), app.RenderOptions{
		Components:  components,
		DestDir:     dest,
		Toggles:     overrides,
		StagingRoot: stagingRoot,
		KeepStaging: keep,
		DryRun:      renderDryRun,
		Confirmer:   confirmer,
		IgnoreFiles: cfg.Ignore.Files,
		Show:        printMarkdown,
	})
	if err != nil {
		var ce *component.ComponentError
		if errors.As(err, &ce) && ce.Type == component.PathNotFound {
			printMarkdown(report.NoPathError(ce.Path, cwd))
		}
		return err
	}

	if keep {
		printMuted("Staging directory kept at " + result.StagingDir)
	}

	switch {
	case result.Committed:
		printSuccess(fmt.Sprintf("Rendered %d files into %s", result.Commit.Manifest.Succeeded(), dest))
	case result.Cancelled:
		printWarning("Cancelled")
	case result.Declined:
		printWarning("Nothing was written")
	}
	return nil
}

// loadConfig loads and validates the configuration for projectDir and
// applies its output settings unless overridden on the command line.
func loadConfig(cmd *cobra.Command, projectDir, explicit string) (*config.Config, error) {
	cfg, _, err := config.Load(config.LoadOptions{ProjectDir: projectDir, ConfigPath: explicit})
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if !flags.Changed(FlagNoColor) {
		globalNoColor = !cfg.Output.Color
	}
	if !flags.Changed(FlagQuiet) {
		globalQuiet = cfg.Output.Quiet
	}
	if !flags.Changed(FlagDebug) {
		globalDebug = cfg.Output.Debug
	}
	markdownEnabled = cfg.Output.Markdown

	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor)
	debug.SetQuiet(globalQuiet)
	return cfg, nil
}

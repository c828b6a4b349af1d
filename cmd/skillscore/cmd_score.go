package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spboyer/skillscore/internal/projectconfig"
	"github.com/spboyer/skillscore/internal/publish"
	"github.com/spboyer/skillscore/internal/reporting"
	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/scoring"
	"github.com/spboyer/skillscore/internal/watch"
	"github.com/spboyer/skillscore/internal/workspace"
)

// now is replaced in tests for stable JUnit timestamps.
var now = time.Now

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [skill-path...]",
		Short: "Score one or more skill packages",
		Long: `Score a skill package against the rule table and print a report.

A path may point at a skill directory (containing SKILL.md) or at a workspace
whose skills/ subdirectory or immediate children contain skills. With no
path, the current directory is used and parent directories are searched for
SKILL.md.

Output formats: text (default), json, markdown.

--export writes an additional report whose format follows the extension:
  .json  .md  .markdown  .html  .xml (JUnit)
optionally followed by .gz or .zst to compress it.

Exit codes:
  0  every skill met --min-grade (default C, i.e. 70% or better)
  1  a skill scored below --min-grade
  2  usage or unexpected error
  3  skill directory or SKILL.md not found

Defaults for every flag may be set in .skillscore.yaml, searched for from the
skill path upwards. Flags given on the command line always win.`,
		RunE: runScore,
	}
	cmd.Flags().String("format", projectconfig.DefaultFormat, "Output format: text | json | markdown")
	cmd.Flags().Bool("detailed", false, "Show per-category scores and issues in text output")
	cmd.Flags().String("export", "", "Also write the report to this file (.json, .md, .html, .xml, optionally .gz/.zst)")
	cmd.Flags().String("rules", "", "Rule table YAML file overriding the built-in defaults")
	cmd.Flags().String("min-grade", projectconfig.DefaultMinGrade, "Minimum passing grade: A | B | C | D | F")
	cmd.Flags().String("publish", "", "Upload the report to an Azure Blob Storage container URL")
	cmd.Flags().Bool("watch", false, "Re-score whenever a file under the skill changes")
	return cmd
}

// scoreOptions is the merged result of flags and project configuration.
type scoreOptions struct {
	format     reporting.Format
	detailed   bool
	exportPath string
	minGrade   scoring.Grade
	publishURL string
	watch      bool
	debounce   time.Duration
	skillsDir  string
	table      *rules.Table
}

// scoreRun holds the state shared by every scoring pass of one invocation.
type scoreRun struct {
	opts      scoreOptions
	out       io.Writer
	color     bool
	multiple  bool
	publisher *publish.Publisher
}

func runScore(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	cfg, err := loadProjectConfig(start)
	if err != nil {
		return err
	}

	opts, err := resolveScoreOptions(cmd, cfg)
	if err != nil {
		return err
	}

	dirs, err := resolveSkillDirs(args, opts.skillsDir)
	if err != nil {
		return err
	}
	if opts.watch && len(dirs) != 1 {
		return fmt.Errorf("--watch needs exactly one skill, found %d", len(dirs))
	}

	run := &scoreRun{
		opts:  opts,
		out:   cmd.OutOrStdout(),
		color: opts.format == reporting.FormatText && isTerminal(cmd.OutOrStdout()),
	}
	if opts.publishURL != "" {
		run.publisher, err = publish.New(opts.publishURL, nil)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if !opts.watch {
		return run.scoreAll(ctx, dirs)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run.watch(ctx, dirs[0])
}

// resolveScoreOptions overlays explicitly set flags on the project config.
func resolveScoreOptions(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) (scoreOptions, error) {
	flags := cmd.Flags()
	formatStr := cfg.Format
	if flags.Changed("format") {
		formatStr, _ = flags.GetString("format")
	}
	detailed := cfg.Detailed != nil && *cfg.Detailed
	if flags.Changed("detailed") {
		detailed, _ = flags.GetBool("detailed")
	}
	minGradeStr := cfg.MinGrade
	if flags.Changed("min-grade") {
		minGradeStr, _ = flags.GetString("min-grade")
	}
	rulesPath := cfg.RulesPath()
	if flags.Changed("rules") {
		rulesPath, _ = flags.GetString("rules")
	}
	publishURL := cfg.Publish.URL
	if flags.Changed("publish") {
		publishURL, _ = flags.GetString("publish")
	}
	exportPath, _ := flags.GetString("export")
	watchMode, _ := flags.GetBool("watch")

	format, err := reporting.ParseFormat(formatStr)
	if err != nil {
		return scoreOptions{}, err
	}
	minGrade, err := scoring.ParseGrade(minGradeStr)
	if err != nil {
		return scoreOptions{}, err
	}
	if exportPath != "" {
		if _, err := reporting.TargetForPath(exportPath); err != nil {
			return scoreOptions{}, err
		}
	}
	table, err := loadRules(rulesPath)
	if err != nil {
		return scoreOptions{}, err
	}

	return scoreOptions{
		format:     format,
		detailed:   detailed,
		exportPath: exportPath,
		minGrade:   minGrade,
		publishURL: publishURL,
		watch:      watchMode,
		debounce:   time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		skillsDir:  cfg.Paths.Skills,
		table:      table,
	}, nil
}

// resolveSkillDirs expands the arguments into skill directories. A workspace
// path expands to every skill it contains; a path holding no skill is kept as
// is so that loading reports it as not found.
func resolveSkillDirs(args []string, skillsDir string) ([]string, error) {
	detectOpts := []workspace.DetectOption{workspace.WithSkillsDir(skillsDir)}
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		ws, err := workspace.DetectContext(wd, append(detectOpts, workspace.WithParentWalk())...)
		if err != nil {
			return nil, fmt.Errorf("detecting workspace: %w", err)
		}
		if ws.Type == workspace.ContextNone {
			return []string{wd}, nil
		}
		return ws.Dirs(), nil
	}

	var dirs []string
	for _, arg := range args {
		if _, err := os.Stat(arg); err != nil && !strings.ContainsAny(arg, `/\`) {
			// Not a path on disk; try it as a skill name in the current workspace.
			if dir, ok := findSkillByName(arg, detectOpts); ok {
				dirs = append(dirs, dir)
				continue
			}
		}
		ws, err := workspace.DetectContext(arg, detectOpts...)
		if err != nil {
			return nil, fmt.Errorf("detecting workspace: %w", err)
		}
		if ws.Type != workspace.ContextMultiSkill {
			dirs = append(dirs, arg)
			continue
		}
		dirs = append(dirs, ws.Dirs()...)
	}
	return dirs, nil
}

func findSkillByName(name string, opts []workspace.DetectOption) (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	ws, err := workspace.DetectContext(wd, opts...)
	if err != nil {
		return "", false
	}
	si, err := workspace.FindSkill(ws, name)
	if err != nil {
		return "", false
	}
	return si.Dir, true
}

// scoreAll scores every directory, writes the reports, and returns the error
// that decides the exit code. JSON output is one document: a report (or error
// report) for a single skill, an array of them for several.
func (r *scoreRun) scoreAll(ctx context.Context, dirs []string) error {
	r.multiple = len(dirs) > 1

	var reports []*reporting.Report
	var docs []any
	var errs []error
	var failed []string

	for _, dir := range dirs {
		report, err := r.scoreOne(ctx, dir)
		if err != nil {
			if r.multiple {
				err = fmt.Errorf("%s: %w", dir, err)
			}
			errs = append(errs, err)
			docs = append(docs, reporting.NewErrorReport(err))
			continue
		}
		reports = append(reports, report)
		docs = append(docs, report)
		if !report.Passed(r.opts.minGrade) {
			failed = append(failed, fmt.Sprintf("%s (%s)", report.SkillName, report.Overall.Grade))
		}

		if r.opts.format != reporting.FormatJSON {
			textOpts := reporting.TextOptions{Detailed: r.opts.detailed, Color: r.color}
			if err := reporting.Render(r.out, r.opts.format, report, textOpts, now()); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
		}
		if r.opts.format == reporting.FormatText && r.opts.exportPath != "" {
			fmt.Fprintf(r.out, "Report exported to %s\n", r.exportPathFor(report.SkillName)) //nolint:errcheck
		}
	}

	if r.opts.format == reporting.FormatJSON {
		var doc any = docs
		if len(docs) == 1 {
			doc = docs[0]
		}
		if err := reporting.WriteJSON(r.out, doc); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if r.multiple && r.opts.format == reporting.FormatText && len(reports) > 0 {
		reporting.WriteSummaryTable(r.out, reports)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if len(failed) > 0 {
		return &QualityFailureError{
			Message: fmt.Sprintf("below minimum grade %s: %s", r.opts.minGrade, strings.Join(failed, ", ")),
		}
	}
	return nil
}

// scoreOne scores a single skill, then writes its export and upload.
func (r *scoreRun) scoreOne(ctx context.Context, dir string) (*reporting.Report, error) {
	res, art, err := scoring.ScoreDir(ctx, dir, r.opts.table)
	if err != nil {
		return nil, err
	}
	report := reporting.NewReport(dir, art.Name, res)
	ts := now()

	if r.opts.exportPath != "" {
		path := r.exportPathFor(report.SkillName)
		if err := reporting.Export(path, report, ts); err != nil {
			return nil, err
		}
		slog.Debug("Exported report", "path", path)
	}

	if r.publisher != nil {
		if err := r.publish(ctx, report, ts); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// exportPathFor returns the export path, with the skill name inserted before
// the extension when several skills share one --export value.
func (r *scoreRun) exportPathFor(skillName string) string {
	path := r.opts.exportPath
	if !r.multiple {
		return path
	}
	dir, base := filepath.Split(path)
	stem, ext := splitExportExt(base)
	return filepath.Join(dir, stem+"-"+skillName+ext)
}

// splitExportExt splits report.json.gz into "report" and ".json.gz".
func splitExportExt(base string) (string, string) {
	var suffix string
	lower := strings.ToLower(base)
	for _, c := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, c) {
			suffix = base[len(base)-len(c):]
			base = base[:len(base)-len(c)]
			break
		}
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext + suffix
}

// publish uploads the report under <skill>/<export name>, defaulting to JSON.
func (r *scoreRun) publish(ctx context.Context, report *reporting.Report, ts time.Time) error {
	name := "report.json"
	if r.opts.exportPath != "" {
		name = filepath.Base(r.opts.exportPath)
	}
	data, target, err := reporting.Encode(name, report, ts)
	if err != nil {
		return err
	}
	blobURL, err := r.publisher.Publish(ctx, publish.Object{
		Name:            report.SkillName + "/" + name,
		Data:            data,
		ContentType:     reporting.ContentType(target.Format),
		ContentEncoding: reporting.ContentEncoding(target.Compression),
		Metadata: map[string]string{
			"grade": report.Overall.Grade,
			"score": strconv.Itoa(report.Overall.Score),
		},
	})
	if err != nil {
		return err
	}
	slog.Info("Published report", "skill", report.SkillName, "url", blobURL)
	return nil
}

// watch scores dir once, then again after every change until ctx is done.
// Scoring errors while watching are reported without stopping the loop.
func (r *scoreRun) watch(ctx context.Context, dir string) error {
	w, err := watch.New(dir, watch.Options{Debounce: r.opts.debounce})
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	rescore := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			slog.Debug("Rescoring after change", "paths", changed)
			if r.opts.format == reporting.FormatText {
				fmt.Fprintf(r.out, "\nChanged: %s\n", strings.Join(changed, ", ")) //nolint:errcheck
			}
		}
		if err := r.scoreAll(ctx, []string{dir}); err != nil {
			var qualityErr *QualityFailureError
			if !errors.As(err, &qualityErr) {
				slog.Warn("Scoring failed", "dir", dir, "error", err)
			}
		}
		return nil
	}

	if err := rescore(ctx, nil); err != nil {
		return err
	}
	if r.opts.format == reporting.FormatText {
		fmt.Fprintln(r.out, "\nWatching for changes... Press Ctrl+C to stop") //nolint:errcheck
	}
	return w.Run(ctx, rescore)
}

func loadProjectConfig(start string) (*projectconfig.ProjectConfig, error) {
	dir := start
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	cfg, err := projectconfig.Load(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Dir != "" {
		slog.Debug("Loaded project config", "dir", cfg.Dir)
	}
	return cfg, nil
}

func loadRules(path string) (*rules.Table, error) {
	if path == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(path)
}

func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

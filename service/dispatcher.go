package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/config"
	"github.com/ludo-technologies/kuma/internal/logging"
)

// ConfigResolver maps a file or directory to the configuration governing it
type ConfigResolver interface {
	For(fileOrDir string) (*config.Config, error)
}

// TargetResolver turns user paths into the targets handed to the tools
type TargetResolver interface {
	Resolve(ctx context.Context, cfg *config.Config, paths []string) ([]string, []error)
}

// Dispatcher runs every enabled tool against the requested paths and
// aggregates their outcome into one pass/fail result
type Dispatcher struct {
	options  domain.Options
	configs  ConfigResolver
	targets  TargetResolver
	runner   domain.CommandRunner
	out      io.Writer
	abort    *domain.AbortState
	progress domain.ProgressManager
	logger   *slog.Logger

	mu      sync.Mutex
	errors  []string
	results []domain.ToolResult
}

// configGroup is a set of paths sharing one configuration object
type configGroup struct {
	cfg   *config.Config
	paths []string
}

// invocation is one planned tool run
type invocation struct {
	tool     config.ToolConfig
	targets  []string
	extended bool
}

// NewDispatcher creates a dispatcher writing tool output to out
func NewDispatcher(
	options domain.Options,
	configs ConfigResolver,
	targets TargetResolver,
	runner domain.CommandRunner,
	out io.Writer,
	abort *domain.AbortState,
) *Dispatcher {
	if abort == nil {
		abort = &domain.AbortState{}
	}
	return &Dispatcher{
		options:  options,
		configs:  configs,
		targets:  targets,
		runner:   runner,
		out:      out,
		abort:    abort,
		progress: &NoOpProgressManager{},
		logger:   logging.Discard(),
	}
}

// SetProgressManager sets the progress manager used during Run
func (d *Dispatcher) SetProgressManager(pm domain.ProgressManager) {
	if pm != nil {
		d.progress = pm
	}
}

// Run invokes the tools and reports whether everything passed
func (d *Dispatcher) Run(ctx context.Context, paths []string) bool {
	logger := logging.FromContext(ctx)
	d.logger = logger
	if len(paths) == 0 {
		paths = []string{"."}
	}

	passed := true
	groups, ok := d.groupByConfig(paths)
	if !ok {
		passed = false
	}

	plan, ok := d.plan(ctx, groups)
	if !ok {
		passed = false
	}
	logger.Debug("planned tool invocations", slog.Int("count", len(plan)))

	task := d.progress.StartTask("Running tools", len(plan))
	defer task.Complete()

	for _, inv := range plan {
		if d.Aborting() {
			logger.Debug("abort requested, skipping remaining tools")
			break
		}
		if err := ctx.Err(); err != nil {
			d.recordError(err)
			passed = false
			break
		}

		task.Describe(inv.tool.Name)
		result := d.invoke(ctx, logger, inv)
		d.mu.Lock()
		d.results = append(d.results, result)
		d.mu.Unlock()

		if result.Failing() {
			passed = false
		}
		task.Increment(1)
	}

	return passed
}

// groupByConfig resolves each path's configuration, keeping first-seen order
func (d *Dispatcher) groupByConfig(paths []string) ([]configGroup, bool) {
	ok := true
	var groups []configGroup
	index := make(map[*config.Config]int)

	for _, path := range paths {
		cfg, err := d.configs.For(path)
		if err != nil {
			d.recordError(err)
			ok = false
			continue
		}
		i, seen := index[cfg]
		if !seen {
			i = len(groups)
			index[cfg] = i
			groups = append(groups, configGroup{cfg: cfg})
		}
		groups[i].paths = append(groups[i].paths, path)
	}

	return groups, ok
}

// plan lists the invocations for every group in configured tool order
func (d *Dispatcher) plan(ctx context.Context, groups []configGroup) ([]invocation, bool) {
	ok := true
	var plan []invocation

	for _, g := range groups {
		targets, errs := d.targets.Resolve(ctx, g.cfg, g.paths)
		for _, err := range errs {
			d.recordError(err)
			ok = false
		}
		if len(targets) == 0 {
			continue
		}

		for _, tool := range g.cfg.OrderedTools() {
			if !tool.Enabled || !d.options.Selects(tool.Name) {
				continue
			}
			plan = append(plan, invocation{
				tool:     tool,
				targets:  targets,
				extended: d.options.ExtendedRules || g.cfg.ExtendedRules,
			})
		}
	}

	return plan, ok
}

// invoke runs one tool and records any failure
func (d *Dispatcher) invoke(ctx context.Context, logger *slog.Logger, inv invocation) domain.ToolResult {
	tool := inv.tool
	result := domain.ToolResult{
		Tool:    tool.Name,
		Targets: inv.targets,
		Allowed: tool.AllowFindings,
	}

	cmd := domain.Command{Name: tool.Command, Args: d.arguments(inv)}
	logger.Debug("invoking tool",
		slog.String("tool", tool.Name),
		slog.String("command", cmd.Name),
		slog.Any("args", cmd.Args))

	d.write([]byte(fmt.Sprintf("# %s\n", tool.HeaderText())))

	start := time.Now()
	res, err := d.runner.Run(ctx, cmd)
	result.Duration = time.Since(start)
	if err != nil {
		result.Outcome = domain.ToolOutcomeFailed
		result.ExitCode = -1
		d.recordError(domain.NewToolError(tool.Name, err))
		return result
	}

	d.write(res.Stdout)
	result.ExitCode = res.ExitCode
	result.Output = string(res.Stdout)

	outcome, score, err := evaluateOutcome(tool, res)
	result.Outcome = outcome
	result.Score = score
	if err != nil {
		d.recordError(domain.NewToolError(tool.Name, err))
	}

	logger.Debug("tool finished",
		slog.String("tool", tool.Name),
		slog.String("outcome", string(outcome)),
		slog.Int("exit_code", res.ExitCode),
		slog.Duration("duration", result.Duration))

	return result
}

// arguments builds `args... [format_flag format] [extended_rules_flag] targets...`
func (d *Dispatcher) arguments(inv invocation) []string {
	tool := inv.tool
	args := make([]string, 0, len(tool.Args)+len(inv.targets)+3)
	args = append(args, tool.Args...)
	if d.options.Format != "" && tool.FormatFlag != "" {
		args = append(args, tool.FormatFlag, d.options.Format)
	}
	if inv.extended && tool.ExtendedRulesFlag != "" {
		args = append(args, tool.ExtendedRulesFlag)
	}
	return append(args, inv.targets...)
}

func (d *Dispatcher) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if _, err := d.out.Write(p); err != nil {
		d.recordError(domain.NewOutputError("failed to write tool output", err))
	}
}

func (d *Dispatcher) recordError(err error) {
	d.logger.Debug("recorded error",
		slog.String("code", domain.ErrorCode(err)),
		slog.String("error", err.Error()))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, err.Error())
}

// Errors returns the errors recorded so far, in order
func (d *Dispatcher) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.errors...)
}

// Results returns the results of the invocations that ran
func (d *Dispatcher) Results() []domain.ToolResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ToolResult(nil), d.results...)
}

// Abort stops the run before the next invocation. It reports whether this
// call performed the transition.
func (d *Dispatcher) Abort() bool {
	return d.abort.Request()
}

// Aborting reports whether an abort has been requested
func (d *Dispatcher) Aborting() bool {
	return d.abort.Requested()
}

package difficulty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"osubot/internal/logging"
	"osubot/internal/mods"
	"osubot/internal/osu"
	"osubot/internal/services"
)

// Calculator is the external difficulty/performance oracle.
type Calculator interface {
	Attributes(ctx context.Context, chartPath string, set mods.Set) (osu.Attributes, error)
	PP(ctx context.Context, chartPath string, set mods.Set, accuracy float64) (float64, error)
}

// ChartSource downloads raw chart files.
type ChartSource interface {
	FetchRawFile(ctx context.Context, beatmapID int) ([]byte, error)
}

// Result holds nomod attributes and, when computable, modded attributes.
// Modded is nil both when no mod changes difficulty and when the calculator
// failed; Degraded distinguishes the latter.
type Result struct {
	Nomod    osu.Attributes  `json:"nomod"`
	Modded   *osu.Attributes `json:"modded,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
}

// Performance pairs each accuracy with its pp estimate, ascending by accuracy.
type Performance struct {
	Accuracies []float64 `json:"accuracies"`
	Values     []float64 `json:"values"`
}

// At returns the pp estimate for accuracy, if it was computed.
func (p Performance) At(accuracy float64) (float64, bool) {
	idx := slices.Index(p.Accuracies, accuracy)
	if idx < 0 || idx >= len(p.Values) {
		return 0, false
	}
	return p.Values[idx], true
}

// baseAccuracies are always included in a performance vector.
var baseAccuracies = []float64{95, 98, 99, 100}

const (
	easyHPScale = 0.5
	hardHPScale = 1.4
	maxHP       = 10
)

// Option configures an Engine.
type Option func(*Engine)

// WithCallTimeout bounds each calculator invocation.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// Engine computes difficulty and performance through a Calculator.
type Engine struct {
	calc        Calculator
	charts      ChartSource
	workDir     string
	callTimeout time.Duration
	logger      *slog.Logger
}

// New constructs an engine that leases chart files under workDir.
func New(calc Calculator, charts ChartSource, workDir string, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		calc:    calc,
		charts:  charts,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "difficulty"),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Accuracies returns {95, 98, 99, 100} plus achieved when it lies in
// (0, 100], de-duplicated and ascending.
func Accuracies(achieved float64) []float64 {
	accs := slices.Clone(baseAccuracies)
	if achieved > 0 && achieved <= 100 && !slices.Contains(accs, achieved) {
		accs = append(accs, achieved)
		slices.Sort(accs)
	}
	return accs
}

// ModdedHP derives HP under s, which the calculator does not report.
func ModdedHP(nomodHP float64, s mods.Set) float64 {
	switch {
	case s.Has(mods.EZ):
		return nomodHP * easyHPScale
	case s.Has(mods.HR):
		return math.Min(nomodHP*hardHPScale, maxHP)
	default:
		return nomodHP
	}
}

// Difficulty returns beatmap's nomod attributes plus modded attributes when s
// changes difficulty. Failures degrade to a nomod-only Result.
func (e *Engine) Difficulty(ctx context.Context, beatmap osu.Beatmap, s mods.Set) Result {
	return e.difficulty(ctx, beatmap, s, e.fetchChart)
}

// Performance returns pp estimates for each accuracy in Accuracies(achieved).
// When s does not affect pp and nomod is supplied, nomod is returned as is.
// Zero-pp mods yield zeros without running the calculator. Any calculator
// failure fails the whole call.
func (e *Engine) Performance(ctx context.Context, beatmapID int, s mods.Set, achieved float64, nomod *Performance) (Performance, error) {
	return e.performance(ctx, beatmapID, s, achieved, nomod, e.fetchChart)
}

type chartFetch func(ctx context.Context, beatmapID int) ([]byte, error)

func (e *Engine) fetchChart(ctx context.Context, beatmapID int) ([]byte, error) {
	if e.charts == nil {
		return nil, services.Wrap(services.ErrConfiguration, "difficulty", "fetch chart", "no chart source configured", nil)
	}
	return e.charts.FetchRawFile(ctx, beatmapID)
}

func (e *Engine) difficulty(ctx context.Context, beatmap osu.Beatmap, s mods.Set, fetch chartFetch) Result {
	result := Result{Nomod: beatmap.Nomod.Rounded()}
	if !s.AffectsDifficulty() {
		return result
	}

	attrs, err := e.moddedAttributes(ctx, beatmap.ID, s, fetch)
	if err != nil {
		result.Degraded = true
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "modded difficulty unavailable", "difficulty_degraded",
			logging.BeatmapID(beatmap.ID),
			logging.String("mods", s.String()),
			logging.Error(services.Wrap(services.ErrDegraded, "difficulty", "modded attributes", "", err)),
			logging.String(logging.FieldErrorHint, "check calculator binary and chart download"),
			logging.String(logging.FieldImpact, "only nomod difficulty reported"),
		)
		return result
	}

	attrs.HP = ModdedHP(beatmap.Nomod.HP, s)
	rounded := attrs.Rounded()
	result.Modded = &rounded
	return result
}

func (e *Engine) moddedAttributes(ctx context.Context, beatmapID int, s mods.Set, fetch chartFetch) (osu.Attributes, error) {
	if e.calc == nil {
		return osu.Attributes{}, services.Wrap(services.ErrConfiguration, "difficulty", "attributes", "no calculator configured", nil)
	}
	lease, err := e.leaseChart(ctx, beatmapID, fetch)
	if err != nil {
		return osu.Attributes{}, err
	}
	defer lease.Release()

	callCtx, cancel := e.callContext(ctx)
	defer cancel()
	attrs, err := e.calc.Attributes(callCtx, lease.Path, s)
	if err != nil {
		return osu.Attributes{}, e.calculatorError(callCtx, "attributes", err)
	}
	return attrs, nil
}

func (e *Engine) performance(ctx context.Context, beatmapID int, s mods.Set, achieved float64, nomod *Performance, fetch chartFetch) (Performance, error) {
	accs := Accuracies(achieved)

	if !s.AffectsPP() && nomod != nil {
		return Performance{
			Accuracies: slices.Clone(nomod.Accuracies),
			Values:     slices.Clone(nomod.Values),
		}, nil
	}
	if s.ZeroesPP() {
		return Performance{Accuracies: accs, Values: make([]float64, len(accs))}, nil
	}
	if e.calc == nil {
		return Performance{}, services.Wrap(services.ErrExternalTool, "difficulty", "performance", "no calculator configured", nil)
	}

	lease, err := e.leaseChart(ctx, beatmapID, fetch)
	if err != nil {
		return Performance{}, err
	}
	defer lease.Release()

	values := make([]float64, 0, len(accs))
	for _, acc := range accs {
		callCtx, cancel := e.callContext(ctx)
		pp, err := e.calc.PP(callCtx, lease.Path, s, acc)
		if err != nil {
			err = e.calculatorError(callCtx, fmt.Sprintf("pp at %v%%", acc), err)
			cancel()
			return Performance{}, err
		}
		cancel()
		values = append(values, pp)
	}
	return Performance{Accuracies: accs, Values: values}, nil
}

func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout > 0 {
		return context.WithTimeout(ctx, e.callTimeout)
	}
	return context.WithCancel(ctx)
}

func (e *Engine) calculatorError(callCtx context.Context, operation string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, services.ErrTimeout) {
		err = errors.Join(services.ErrTimeout, err)
	}
	if errors.Is(err, services.ErrExternalTool) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return services.Wrap(services.ErrExternalTool, "difficulty", operation, "calculator failed", err)
}

// Package pipeline implements the PipelineCoordinator: runs the named
// phases in order, records per-phase timing, propagates cancellation,
// and consolidates results.
package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ivycast/curator/internal/catalog"
	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/dedup"
	"github.com/ivycast/curator/internal/emit"
	"github.com/ivycast/curator/internal/enrich"
	"github.com/ivycast/curator/internal/errs"
	"github.com/ivycast/curator/internal/filter"
	"github.com/ivycast/curator/internal/httpclient"
	"github.com/ivycast/curator/internal/httpsconv"
	"github.com/ivycast/curator/internal/logging"
	"github.com/ivycast/curator/internal/order"
	"github.com/ivycast/curator/internal/source"
	"github.com/ivycast/curator/internal/validate"
)

// PhaseStatus is the outcome of one phase run.
type PhaseStatus string

const (
	PhaseOK        PhaseStatus = "ok"
	PhaseFailed    PhaseStatus = "failed"
	PhasePassedThrough PhaseStatus = "passthrough"
)

// PhaseName enumerates the fixed phase sequence.
const (
	PhaseConfiguration   = "configuration"
	PhaseServiceInit     = "service-init"
	PhaseDataLoading     = "data-loading"
	PhasePreparation     = "preparation"
	PhaseCoreProcessing  = "core-processing"
	PhaseChunkEnrichment = "chunk-enrichment"
	PhaseEmission        = "emission"
	PhaseSummary         = "summary"
)

// PhaseResult records one phase's outcome, adapted from the
// start-time/duration/status shape used as a reference pattern for
// this coordinator (not a teacher file).
type PhaseResult struct {
	Name     string
	Status   PhaseStatus
	Duration time.Duration
	Err      error
}

// Summary is the coordinator's final consolidated result.
type Summary struct {
	RunID          string
	Phases         []PhaseResult
	InputCount     int
	FilteredCount  int
	RejectedCount  int
	DedupedCount   int
	DuplicatesRemoved int
	ValidatedCount int
	UnreachableCount int
	FinalCount     int
}

// alwaysCriticalPhases abort the run outright on failure regardless of
// the error's Kind.
var alwaysCriticalPhases = map[string]bool{
	PhaseConfiguration: true,
	PhaseServiceInit:   true,
	PhaseDataLoading:   true, // no source succeeded: nothing to process
	PhaseEmission:      true,
}

// isFatal decides whether a phase failure aborts the run: a named
// critical phase always aborts; otherwise it aborts only if the error
// carries a Kind tagged fatal (configuration, filesystem or invariant
// failures surfaced from any phase).
func isFatal(phaseName string, err error) bool {
	if alwaysCriticalPhases[phaseName] {
		return true
	}
	var typed *errs.Error
	if errors.As(err, &typed) {
		return typed.Kind.Fatal()
	}
	return false
}

// Coordinator wires and runs every named component in sequence.
type Coordinator struct {
	v      *config.View
	log    logging.Logger
	metrics *PromMetrics

	client *http.Client
}

func New(v *config.View, log logging.Logger, metrics *PromMetrics) *Coordinator {
	if log == nil {
		log = logging.Nop{}
	}
	return &Coordinator{v: v, log: log, metrics: metrics, client: httpclient.Default()}
}

// Run executes configuration through summary, returning the consolidated
// Summary. A critical phase failure stops the run and is returned as an
// error; non-critical failures fall back to passthrough and are noted in
// the phase result.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := c.log
	summary := Summary{RunID: runID}

	var (
		repo       source.Repository
		filterEng  *filter.Engine
		dedupEng   *dedup.Engine
		conv       *httpsconv.Converter
		validator  *validate.Validator
		cache      *validate.Cache
		enrichPipe *enrich.Pipeline
		orderSvc   *order.Service
		emitter    *emit.Emitter

		raw, filtered, prepared, merged, validated, enriched, ordered []catalog.Channel
		rejected []filter.Rejection
		reachableEarly map[string]bool
		dedupMetrics dedup.Metrics
	)

	if ok, err := c.phase(&summary, PhaseConfiguration, func() error {
		if c.v == nil {
			return errs.Configuration(PhaseConfiguration, "nil configuration", nil)
		}
		return nil
	}); !ok {
		return summary, err
	}

	if ok, err := c.phase(&summary, PhaseServiceInit, func() error {
		var err error
		repo, err = source.New(c.v, log, c.client)
		if err != nil {
			return errs.Configuration(PhaseServiceInit, "build source repository", err)
		}
		var ignoreFileChannels []catalog.Channel
		for _, path := range c.v.IgnoreFiles {
			chs, err := source.ParseTabularFile(path)
			if err != nil {
				log.Warn("ignore-for-filtering file could not be loaded, skipping", "path", path, "error", err.Error())
				continue
			}
			ignoreFileChannels = append(ignoreFileChannels, chs...)
		}
		filterEng = filter.New(filter.NewRuleSet(c.v, ignoreFileChannels))
		conv = httpsconv.New(c.v, c.client)
		var cacheErr error
		cache, cacheErr = validate.NewCache(c.v.ReachabilityCacheTTL, c.v.ReachabilityCacheSize, c.v.ReachabilityCachePath)
		if cacheErr != nil {
			return errs.Configuration(PhaseServiceInit, "open reachability cache", cacheErr)
		}
		validator = validate.New(c.v, c.client, cache)
		enrichPipe = enrich.New(c.v)
		orderSvc = order.New(c.v)
		emitter = emit.New(c.v)
		return nil
	}); !ok {
		return summary, err
	}
	if cache != nil {
		defer cache.Close()
	}

	if ok, err := c.phase(&summary, PhaseDataLoading, func() error {
		if err := repo.Initialize(ctx); err != nil {
			return errs.Source(PhaseDataLoading, "initialize source", err)
		}
		var err error
		raw, err = repo.Channels(ctx)
		if err != nil {
			return errs.Source(PhaseDataLoading, "load channels", err)
		}
		summary.InputCount = len(raw)
		return nil
	}); !ok {
		return summary, err
	}

	c.phase(&summary, PhasePreparation, func() error {
		kept, rej := filterEng.Apply(raw)
		filtered = kept
		rejected = rej
		prepared = assignStableIDs(filtered, time.Now())
		for i := range prepared {
			if prepared[i].Quality == "" || prepared[i].Quality == catalog.QualityUnknown {
				prepared[i].Quality = enrich.InferQuality(prepared[i].Name)
			}
		}
		summary.FilteredCount = len(prepared)
		summary.RejectedCount = len(rejected)
		return nil
	})

	c.phase(&summary, PhaseCoreProcessing, func() error {
		if c.v.EnableStreamValidation {
			earlyCache, _ := validate.NewCache(time.Minute, 0, "")
			earlyValidator := validate.New(withTighterTimeout(c.v), c.client, earlyCache)
			_, reachableEarly = earlyValidator.Run(ctx, prepared)
		}
		dedupEng = dedup.New(c.v, reachableEarly)

		g, gCtx := errgroup.WithContext(ctx)
		var convertedChannels []catalog.Channel
		var dedupedChannels []catalog.Channel
		g.Go(func() error {
			_ = gCtx
			var groups []dedup.Group
			dedupedChannels, groups, dedupMetrics = dedupEng.Run(prepared)
			_ = groups
			return nil
		})
		g.Go(func() error {
			convertedChannels = conv.Run(gCtx, prepared)
			return nil
		})
		g.Wait()

		convertedByID := make(map[string]string, len(convertedChannels))
		for _, ch := range convertedChannels {
			convertedByID[ch.ID] = ch.StreamURL
		}
		merged = dedupedChannels
		for i := range merged {
			if url, ok := convertedByID[merged[i].ID]; ok {
				merged[i].StreamURL = url
			}
		}
		summary.DedupedCount = len(merged)
		summary.DuplicatesRemoved = dedupMetrics.DuplicatesRemoved

		if c.v.EnableStreamValidation {
			results, _ := validator.Run(ctx, merged)
			validated = applyValidation(merged, results, c.v.RemoveInvalidStreams)
			summary.ValidatedCount = len(validated)
			for _, r := range results {
				if !r.Reachable() {
					summary.UnreachableCount++
				}
			}
			if cache != nil {
				cache.Flush()
			}
		} else {
			validated = merged
		}
		return nil
	})

	c.phase(&summary, PhaseChunkEnrichment, func() error {
		enriched = enrichPipe.Run(validated)
		return nil
	})

	c.phase(&summary, PhaseEmission, func() error {
		ordered = orderSvc.Run(enriched)
		if err := emitter.Run(ordered); err != nil {
			return errs.Filesystem(PhaseEmission, "write artifacts", err)
		}
		return nil
	})
	summary.FinalCount = len(ordered)

	c.phase(&summary, PhaseSummary, func() error {
		log.Info("pipeline complete",
			"runId", runID,
			"input", summary.InputCount,
			"filtered", summary.FilteredCount,
			"rejected", summary.RejectedCount,
			"deduped", summary.DedupedCount,
			"duplicatesRemoved", summary.DuplicatesRemoved,
			"unreachable", summary.UnreachableCount,
			"final", summary.FinalCount,
		)
		return nil
	})

	return summary, nil
}

// phase times and runs fn, recording a PhaseResult. A critical phase's
// error is returned to the caller to abort the run; a non-critical
// phase's error is logged and swallowed (passthrough).
func (c *Coordinator) phase(summary *Summary, name string, fn func() error) (bool, error) {
	start := time.Now()
	err := fn()
	result := PhaseResult{Name: name, Duration: time.Since(start)}
	if err != nil {
		result.Err = err
		if isFatal(name, err) {
			result.Status = PhaseFailed
			summary.Phases = append(summary.Phases, result)
			c.metrics.observe(result)
			c.log.Error("critical phase failed", "phase", name, "error", err.Error())
			return false, err
		}
		result.Status = PhasePassedThrough
		c.log.Warn("non-critical phase failed, continuing with passthrough", "phase", name, "error", err.Error())
	} else {
		result.Status = PhaseOK
	}
	summary.Phases = append(summary.Phases, result)
	c.metrics.observe(result)
	return true, nil
}

func withTighterTimeout(v *config.View) *config.View {
	cp := *v
	cp.StreamValidationTimeout = 5 * time.Second
	return &cp
}

func applyValidation(channels []catalog.Channel, results map[string]validate.Result, removeInvalid bool) []catalog.Channel {
	out := make([]catalog.Channel, 0, len(channels))
	for _, ch := range channels {
		r, ok := results[ch.ID]
		if !ok || r.Reachable() {
			ch.IsActive = true
			out = append(out, ch)
			continue
		}
		if removeInvalid {
			continue
		}
		ch.IsActive = false
		out = append(out, ch)
	}
	return out
}

// Package pipeline runs the fetch, reduce, analyze and parse sequence for
// each configured source and writes the aggregate result.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cardpoint"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultPace is the minimum interval between two sources.
const DefaultPace = 2 * time.Second

// Processing stages reported in logs.
const (
	StageValidate = "validate"
	StageFetch    = "fetch"
	StageReduce   = "reduce"
	StageAnalyze  = "analyze"
	StageParse    = "parse"
)

// Pacer blocks until the next source may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a Pacer that lets one source through immediately and
// spaces the following ones by interval.
func NewPacer(interval time.Duration) Pacer {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Driver sequences the pipeline over sources. Per-source failures are
// recorded in the result and never stop the run; only a failure to write
// the result is returned as an error.
type Driver struct {
	Fetcher  cardpoint.Fetcher
	Reducer  cardpoint.Reducer
	Analyzer cardpoint.Analyzer
	Parser   cardpoint.ResponseParser
	Writer   cardpoint.ResultWriter

	// Cache, if set, receives every live page that reduces cleanly and is
	// consulted when a fetch fails or the live page is degenerate.
	Cache cardpoint.Cache

	// The promo pass runs only when all three are set and the source
	// has a PromoURL.
	Copywriter     cardpoint.Copywriter
	PromoExtractor cardpoint.Extractor
	PromoConverter cardpoint.Converter

	Debug        cardpoint.DebugSink
	TokenCounter cardpoint.TokenCounter
	Pacer        Pacer
	Logger       *slog.Logger

	// Model is recorded in the result metadata.
	Model string

	Now      func() time.Time
	NewRunID func() string
}

// Run processes sources in order and writes the result.
func (d *Driver) Run(ctx context.Context, sources []*cardpoint.Source) (*cardpoint.Result, error) {
	result := &cardpoint.Result{
		Meta: cardpoint.Meta{
			RunID:       d.runID(),
			GeneratedAt: d.now(),
			Model:       d.Model,
			Sources:     make(map[string]*cardpoint.SourceMeta, len(sources)),
		},
		Stores: []cardpoint.Record{},
	}

	for _, src := range sources {
		if d.Pacer != nil {
			if err := d.Pacer.Wait(ctx); err != nil {
				return result, err
			}
		}

		meta := result.SourceMeta(src)
		rs, stage, err := d.process(ctx, src, meta)
		if err != nil {
			d.logger().Error("source failed",
				"label", src.Label,
				"stage", stage,
				"err", err,
			)
			result.Fail(src, err)
		} else {
			result.Add(rs)
			d.logger().Info("source done",
				"label", src.Label,
				"records", len(rs.Records),
				"from_cache", meta.FromCache,
			)
		}

		meta.Promo = d.promo(ctx, src)
	}

	if err := d.Writer.WriteResult(ctx, result); err != nil {
		if cardpoint.ErrorCode(err) != cardpoint.EPERSIST {
			err = cardpoint.Errorf(cardpoint.EPERSIST, "write result: %v", err)
		}
		return result, err
	}
	return result, nil
}

// process runs one source and returns the stage that failed, if any.
func (d *Driver) process(ctx context.Context, src *cardpoint.Source, meta *cardpoint.SourceMeta) (*cardpoint.RecordSet, string, error) {
	if err := src.Validate(); err != nil {
		return nil, StageValidate, err
	}

	text, fromCache, stage, err := d.load(ctx, src)
	if err != nil {
		return nil, stage, err
	}
	meta.FromCache = fromCache

	d.dump(ctx, src.Label, cardpoint.DumpCleaned, text)
	d.countTokens(ctx, src, text)

	raw, err := d.Analyzer.Analyze(ctx, &cardpoint.ExtractionRequest{Source: src, Text: text})
	if err != nil {
		return nil, StageAnalyze, err
	}
	if raw == "" {
		return nil, StageAnalyze, cardpoint.Errorf(cardpoint.ERATELIMIT, "no response from model for %s", src.Label)
	}
	d.dump(ctx, src.Label, cardpoint.DumpResponse, raw)

	records, err := d.Parser.ParseRecords(raw)
	if err != nil {
		d.dump(ctx, src.Label, cardpoint.DumpParseError, raw)
		return nil, StageParse, err
	}

	rs := &cardpoint.RecordSet{Source: src, Records: records}
	rs.Annotate()
	return rs, "", nil
}

// load fetches and reduces the source page. A live page is cached only
// once it reduces cleanly. A failed fetch or a degenerate live page falls
// back to the cached copy; fromCache reports whether that happened.
func (d *Driver) load(ctx context.Context, src *cardpoint.Source) (text string, fromCache bool, stage string, err error) {
	html, err := d.Fetcher.Fetch(ctx, src.Target())
	stage = StageFetch
	if err == nil {
		text, err = d.Reducer.Reduce(html)
		if err == nil {
			d.save(ctx, src, html)
			return text, false, "", nil
		}
		stage = StageReduce
		if cardpoint.ErrorCode(err) != cardpoint.EDEGENERATE {
			return "", false, stage, err
		}
	}
	if ctx.Err() != nil || d.Cache == nil {
		return "", false, stage, err
	}

	cached, cerr := d.Cache.Load(ctx, src.Label)
	if cerr != nil {
		d.logger().Warn("no cached page", "label", src.Label, "err", cerr)
		return "", false, stage, err
	}
	d.logger().Warn("live page unusable, using cached page", "label", src.Label, "stage", stage, "err", err)

	text, err = d.Reducer.Reduce(cached)
	if err != nil {
		return "", true, StageReduce, err
	}
	return text, true, "", nil
}

func (d *Driver) save(ctx context.Context, src *cardpoint.Source, html string) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Save(ctx, src.Label, html); err != nil {
		d.logger().Warn("cache save failed", "label", src.Label, "err", err)
	}
}

// promo writes a promotional phrase from the source's promo page. Any
// failure yields no phrase.
func (d *Driver) promo(ctx context.Context, src *cardpoint.Source) string {
	if src.PromoURL == "" || d.Copywriter == nil || d.PromoExtractor == nil || d.PromoConverter == nil {
		return ""
	}
	phrase, err := d.catchphrase(ctx, src)
	if err != nil {
		d.logger().Warn("promo skipped", "label", src.Label, "url", src.PromoURL, "err", err)
		return ""
	}
	return phrase
}

func (d *Driver) catchphrase(ctx context.Context, src *cardpoint.Source) (string, error) {
	html, err := d.Fetcher.Fetch(ctx, src.PromoURL)
	if err != nil {
		return "", err
	}
	res, err := d.PromoExtractor.Extract(html)
	if err != nil {
		return "", err
	}
	if res.ContentHTML == "" {
		return "", nil
	}
	text, err := d.PromoConverter.Convert(res.ContentHTML)
	if err != nil {
		return "", err
	}
	return d.Copywriter.Catchphrase(ctx, src.Label, text)
}

func (d *Driver) dump(ctx context.Context, label, kind, content string) {
	if d.Debug == nil {
		return
	}
	if err := d.Debug.Dump(ctx, label, kind, content); err != nil {
		d.logger().Warn("debug dump failed", "label", label, "kind", kind, "err", err)
	}
}

func (d *Driver) countTokens(ctx context.Context, src *cardpoint.Source, text string) {
	if d.TokenCounter == nil {
		return
	}
	n, err := d.TokenCounter.CountTokens(ctx, text)
	if err != nil {
		d.logger().Debug("token count failed", "label", src.Label, "err", err)
		return
	}
	d.logger().Debug("reduced text", "label", src.Label, "tokens", n)
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

func (d *Driver) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now()
}

func (d *Driver) runID() string {
	if d.NewRunID == nil {
		return uuid.New().String()
	}
	return d.NewRunID()
}

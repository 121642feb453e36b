package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"subtitle-generator/internal/capture"
	"subtitle-generator/internal/convert"
	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/events"
	"subtitle-generator/internal/media"
	"subtitle-generator/internal/models"
	"subtitle-generator/internal/observability/logging"
	"subtitle-generator/internal/observability/metrics"
	"subtitle-generator/internal/subtitle"
)

// segmentBuffer bounds how many engine segments may be in flight between the
// engine goroutine and the collector.
const segmentBuffer = 64

// Result summarizes a finished session.
type Result struct {
	SessionID   string
	State       State
	OutputPaths []string
	Segments    int
	Cause       *Cause
}

// Decoder converts an input file into a temporary normalized WAV artifact
// the caller owns. *media.Transcoder is the production implementation.
type Decoder interface {
	Decode(ctx context.Context, inputPath string) (string, error)
}

var _ Decoder = (*media.Transcoder)(nil)

// Controller runs transcription sessions. At most one session is active at a
// time; a second request fails with ErrSessionActive.
type Controller struct {
	eng        engine.Engine
	transcoder Decoder
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	provider   string

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
}

// NewController wires a controller from its dependencies. provider names the
// engine for logs and metrics.
func NewController(eng engine.Engine, transcoder Decoder, publisher *events.Publisher, provider string) *Controller {
	return &Controller{
		eng:        eng,
		transcoder: transcoder,
		publisher:  publisher,
		metrics:    metrics.DefaultMetrics,
		provider:   provider,
	}
}

// Cancel requests cancellation of the active session, if any. A session
// cancelled mid-transcription still serializes the segments collected so far.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// TranscribeFile runs a full file session: transcode, transcribe, serialize.
func (c *Controller) TranscribeFile(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.acquire(cancel); err != nil {
		return nil, err
	}
	defer c.release()

	sessionID := uuid.NewString()
	lc := NewLifecycle(sessionID)
	logger := logging.WithSession(sessionID)
	res := &Result{SessionID: sessionID}
	start := time.Now()
	c.metrics.RecordSessionStart()
	defer func() {
		res.State = lc.State()
		c.metrics.RecordSessionEnd(lc.State().String(), time.Since(start).Seconds())
	}()

	logger.Info().Str("input", opts.InputPath).Msg("Session starting")
	c.toState(ctx, lc, StatePreparing, "")

	wavPath := opts.InputPath
	if !opts.SkipConversion {
		transcodeStart := time.Now()
		var err error
		wavPath, err = c.transcoder.Decode(ctx, opts.InputPath)
		if err != nil {
			if ctx.Err() != nil {
				c.toState(ctx, lc, StateCancelled, "")
				logger.Info().Msg("Session cancelled during preparation")
				return res, nil
			}
			cause := &Cause{Kind: FailurePreparation, Err: err}
			res.Cause = cause
			c.toState(ctx, lc, StateFailed, cause.Error())
			logger.Error().Err(err).Msg("Preparation failed")
			return res, cause
		}
		c.metrics.RecordTranscode(time.Since(transcodeStart).Seconds())
		// Only the transient artifact is ever deleted, never user input.
		defer c.cleanup(wavPath, logger)
	}

	c.toState(ctx, lc, StateTranscribing, "")
	col := NewCollector()
	engErr := c.runEngine(ctx, engine.Request{
		AudioPath: wavPath,
		Language:  opts.Language,
		Translate: opts.Translate,
		Strategy:  opts.Strategy,
		Model:     opts.Model,
	}, col, sessionID)

	c.toState(ctx, lc, StateFinalizing, "")
	return c.finalize(ctx, lc, res, col, opts, opts.InputPath, engErr, logger)
}

// TranscribeCapture runs a live capture session against dev until cancelled
// or the device stream ends. Every admitted chunk triggers a whole-window
// re-inference; the latest completed submission supersedes earlier results.
func (c *Controller) TranscribeCapture(ctx context.Context, dev capture.Device, winCfg capture.WindowConfig, tuning capture.Tuning, opts Options) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.acquire(cancel); err != nil {
		return nil, err
	}
	defer c.release()

	sessionID := uuid.NewString()
	lc := NewLifecycle(sessionID)
	logger := logging.WithSession(sessionID)
	res := &Result{SessionID: sessionID}
	start := time.Now()
	c.metrics.RecordSessionStart()
	defer func() {
		res.State = lc.State()
		c.metrics.RecordSessionEnd(lc.State().String(), time.Since(start).Seconds())
	}()

	logger.Info().Msg("Capture session starting")
	c.toState(ctx, lc, StatePreparing, "")

	chunks, err := dev.Start(ctx, tuning)
	if err != nil {
		if ctx.Err() != nil {
			c.toState(ctx, lc, StateCancelled, "")
			return res, nil
		}
		cause := &Cause{Kind: FailurePreparation, Err: err}
		res.Cause = cause
		c.toState(ctx, lc, StateFailed, cause.Error())
		logger.Error().Err(err).Msg("Capture device failed to start")
		return res, cause
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close capture device")
		}
	}()

	c.toState(ctx, lc, StateTranscribing, "")
	window := capture.NewWindow(winCfg)
	col := NewCollector()

	var (
		wg        sync.WaitGroup
		subMu     sync.Mutex
		subCancel context.CancelFunc
		seq       int
		applied   int
	)

	submit := func(samples []float32) {
		subMu.Lock()
		if subCancel != nil {
			subCancel()
		}
		subCtx, cancelSub := context.WithCancel(ctx)
		subCancel = cancelSub
		seq++
		id := seq
		subMu.Unlock()

		c.metrics.RecordWindowSubmission()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancelSub()
			segs, err := c.transcribeWindow(subCtx, samples, dev.SampleRate(), opts)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Warn().Err(err).Msg("Window submission failed")
				}
				return
			}
			subMu.Lock()
			if id > applied {
				applied = id
				col.Replace(segs)
			}
			subMu.Unlock()
		}()
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case chunk, ok := <-chunks:
			if !ok {
				break loop
			}
			if !window.Admit(chunk) {
				c.metrics.RecordChunkDropped("silence")
				continue
			}
			c.metrics.RecordChunkAdmitted(window.Len())
			submit(window.Concat())
		}
	}
	wg.Wait()

	c.toState(ctx, lc, StateFinalizing, "")
	base := filepath.Join(os.TempDir(), fmt.Sprintf("recording_%d", time.Now().UnixMilli()))
	return c.finalize(ctx, lc, res, col, opts, base, nil, logger)
}

// DetectLanguage transcodes the input and asks the engine which language is
// spoken, without producing subtitles.
func (c *Controller) DetectLanguage(ctx context.Context, inputPath string, opts Options) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.acquire(cancel); err != nil {
		return "", err
	}
	defer c.release()

	logger := logging.WithComponent("detect-language")

	wavPath, err := c.transcoder.Decode(ctx, inputPath)
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	defer c.cleanup(wavPath, logger)

	lang, err := c.eng.DetectLanguage(ctx, engine.Request{
		AudioPath: wavPath,
		Model:     opts.Model,
	})
	if err != nil {
		return "", err
	}
	logger.Info().Str("input", inputPath).Str("language", lang).Msg("Language detected")
	return lang, nil
}

func (c *Controller) acquire(cancel context.CancelFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return ErrSessionActive
	}
	c.active = true
	c.cancel = cancel
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.active = false
	c.cancel = nil
	c.mu.Unlock()
}

// runEngine feeds one submission through the engine, collecting segments as
// they arrive so a cancelled session keeps everything produced before the
// cancel.
func (c *Controller) runEngine(ctx context.Context, req engine.Request, col *Collector, sessionID string) error {
	out := make(chan models.Segment, segmentBuffer)
	done := make(chan error, 1)
	start := time.Now()

	go func() {
		done <- c.eng.Transcribe(ctx, req, out)
	}()

	var err error
	for running := true; running; {
		select {
		case seg := <-out:
			c.collect(ctx, col, sessionID, seg)
		case err = <-done:
			running = false
		}
	}
	// Drain segments buffered before the engine returned.
	for {
		select {
		case seg := <-out:
			c.collect(ctx, col, sessionID, seg)
		default:
			c.metrics.RecordEngineSubmission(c.provider, err, time.Since(start).Seconds())
			return err
		}
	}
}

// transcribeWindow runs one whole-window submission and returns its segments.
func (c *Controller) transcribeWindow(ctx context.Context, samples []float32, sampleRate int, opts Options) ([]models.Segment, error) {
	out := make(chan models.Segment, segmentBuffer)
	done := make(chan error, 1)
	start := time.Now()

	go func() {
		done <- c.eng.Transcribe(ctx, engine.Request{
			Samples:    samples,
			SampleRate: sampleRate,
			Language:   opts.Language,
			Translate:  opts.Translate,
			Strategy:   opts.Strategy,
			Model:      opts.Model,
		}, out)
	}()

	var segs []models.Segment
	var err error
	for running := true; running; {
		select {
		case seg := <-out:
			segs = append(segs, seg)
		case err = <-done:
			running = false
		}
	}
	for {
		select {
		case seg := <-out:
			segs = append(segs, seg)
		default:
			c.metrics.RecordEngineSubmission(c.provider, err, time.Since(start).Seconds())
			if err != nil {
				return nil, err
			}
			return segs, nil
		}
	}
}

func (c *Controller) collect(ctx context.Context, col *Collector, sessionID string, seg models.Segment) {
	col.Append(seg)
	c.metrics.RecordSegmentCollected()

	event := models.SegmentEvent{
		EventType:   "subtitle.session.segment",
		SessionID:   sessionID,
		Index:       col.Len(),
		StartMs:     seg.Start.Milliseconds(),
		EndMs:       seg.End.Milliseconds(),
		Text:        seg.Text,
		Language:    seg.Language,
		Probability: seg.Probability,
		Channel:     seg.Channel.String(),
		Timestamp:   time.Now().UnixMilli(),
	}
	// Best effort; the publisher already logged any failure.
	_ = c.publisher.PublishSegment(context.WithoutCancel(ctx), sessionID, event)
}

// finalize serializes collected segments and drives the session to its
// terminal state. An engine fault never serializes; a cancellation
// serializes whatever was collected.
func (c *Controller) finalize(ctx context.Context, lc *Lifecycle, res *Result, col *Collector, opts Options, outputBase string, engErr error, logger zerolog.Logger) (*Result, error) {
	cancelled := ctx.Err() != nil || errors.Is(engErr, context.Canceled)

	if engErr != nil && !cancelled {
		cause := &Cause{Kind: FailureEngine, Err: engErr}
		res.Cause = cause
		c.toState(ctx, lc, StateFailed, cause.Error())
		logger.Error().Err(engErr).Msg("Engine fault, no output written")
		return res, cause
	}

	segments := col.Drain()
	res.Segments = len(segments)

	if !cancelled || len(segments) > 0 {
		paths, err := c.serialize(segments, outputBase, opts)
		res.OutputPaths = paths
		if err != nil {
			if cancelled {
				logger.Warn().Err(err).Msg("Failed to write partial output")
			} else {
				cause := &Cause{Kind: FailureSerialization, Err: err}
				res.Cause = cause
				c.toState(ctx, lc, StateFailed, cause.Error())
				logger.Error().Err(err).Msg("Serialization failed")
				return res, cause
			}
		}
	}

	if cancelled {
		c.toState(ctx, lc, StateCancelled, "")
		logger.Info().Int("segments", res.Segments).Strs("outputs", res.OutputPaths).Msg("Session cancelled")
		return res, nil
	}

	c.toState(ctx, lc, StateCompleted, "")
	logger.Info().Int("segments", res.Segments).Strs("outputs", res.OutputPaths).Msg("Session completed")
	return res, nil
}

func (c *Controller) serialize(segments []models.Segment, outputBase string, opts Options) ([]string, error) {
	transform := subtitle.TextTransform(convert.ForMode(opts.ConvertMode))
	var paths []string
	for _, f := range opts.Output.Formats() {
		p, err := subtitle.WriteFile(outputBase, segments, f, transform)
		if err != nil {
			return paths, err
		}
		c.metrics.RecordSubtitleWritten(f.String())
		paths = append(paths, p)
	}
	return paths, nil
}

// toState transitions the lifecycle and publishes the change. Event delivery
// never affects the session outcome.
func (c *Controller) toState(ctx context.Context, lc *Lifecycle, next State, cause string) {
	if err := lc.Transition(next); err != nil {
		logger := logging.WithSession(lc.SessionID())
		logger.Warn().Err(err).Msg("Skipping state transition")
		return
	}
	event := models.SessionStateEvent{
		EventType: "subtitle.session.state",
		SessionID: lc.SessionID(),
		State:     next.String(),
		Cause:     cause,
		Timestamp: time.Now().UnixMilli(),
	}
	_ = c.publisher.PublishState(context.WithoutCancel(ctx), lc.SessionID(), event)
}

// cleanup removes a temporary artifact. Failure to clean up is logged and
// never escalates.
func (c *Controller) cleanup(path string, logger zerolog.Logger) {
	if err := os.Remove(path); err != nil {
		logger.Warn().Err(err).Str("artifact", path).Msg("Failed to remove temp artifact")
		return
	}
	logger.Debug().Str("artifact", path).Msg("Removed temp artifact")
}

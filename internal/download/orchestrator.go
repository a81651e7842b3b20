package download

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/format"
	"github.com/turboplaylist/turboplaylist/internal/model"
	"github.com/turboplaylist/turboplaylist/internal/ytdlp"
)

// ItemRequest is one queued item with its resolved variant choice. An empty
// VariantID means no explicit choice; the generic selector applies.
type ItemRequest struct {
	ID        string
	Title     string
	VariantID string
	HasVideo  bool
	HasAudio  bool
	Container string
}

// Request describes one orchestration run.
type Request struct {
	Items   []ItemRequest
	Target  format.Target
	Quality string // bitrate enum for audio, height cap for video
	Profile model.Profile
}

// Orchestrator schedules bounded-parallel download tasks against a session
// directory and pushes their events into a sink.
type Orchestrator struct {
	runner   ytdlp.Runner
	template string
	logger   *zap.Logger
}

// New creates an orchestrator driving the given runner. template is the
// output filename template handed to the extraction tool.
func New(runner ytdlp.Runner, template string, logger *zap.Logger) *Orchestrator {
	if template == "" {
		template = ytdlp.DefaultTemplate
	}
	return &Orchestrator{runner: runner, template: template, logger: logger}
}

// Run drains the item queue with the profile's worker count and returns
// after emitting the single RunComplete event. Items are dequeued in strict
// submission order; at no instant do more than TaskParallelism tasks run.
// Task failures are absorbed: a failed item still reports ItemComplete so
// one bad entry cannot stall the playlist.
func (o *Orchestrator) Run(ctx context.Context, session model.Session, req Request, sink EventSink) {
	queue := make(chan ItemRequest, len(req.Items))
	for _, item := range req.Items {
		queue <- item
	}
	close(queue)

	workers := req.Profile.TaskParallelism()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				status := o.process(ctx, session, req, item, sink)
				sink.ItemComplete(item.ID)
				o.logger.Debug("item settled",
					zap.String("session", session.ID),
					zap.String("item", item.ID),
					zap.String("status", status.String()),
				)
			}
		}()
	}
	wg.Wait()

	sink.RunComplete("/download/" + session.ID)
}

// process runs one task: the primary attempt with the item's resolved
// flags, then at most one generic fallback when the requested format is
// unavailable. The item's status advances preparing, downloading on the
// first progress line, then the terminal completed or error value, which is
// returned for the settlement log.
func (o *Orchestrator) process(ctx context.Context, session model.Session, req Request, item ItemRequest, sink EventSink) model.ItemStatus {
	dlReq := ytdlp.Request{
		Audio:     req.Target == format.TargetAudio,
		Quality:   req.Quality,
		Fragments: req.Profile.FragmentParallelism(),
		Dir:       session.Dir,
		Template:  o.template,
	}
	if item.VariantID != "" {
		dlReq.Choice = &ytdlp.Choice{
			VariantID: item.VariantID,
			HasVideo:  item.HasVideo,
			HasAudio:  item.HasAudio,
			Ext:       item.Container,
		}
	}

	url := ytdlp.WatchURL(item.ID)
	status := model.StatusPreparing
	onProgress := func(p ytdlp.Progress) {
		status = status.Advance(model.StatusDownloading)
		sink.ProgressUpdate(item.ID, p.Percent, p.Speed, p.ETA)
	}

	err := o.runner.Download(ctx, url, ytdlp.BuildArgs(dlReq), onProgress)
	if err == nil {
		return status.Advance(model.StatusCompleted)
	}

	if errors.Is(err, ytdlp.ErrFormatUnavailable) {
		o.logger.Info("requested format unavailable, retrying with generic selector",
			zap.String("session", session.ID),
			zap.String("item", item.ID),
		)
		err = o.runner.Download(ctx, url, ytdlp.FallbackArgs(dlReq), onProgress)
		if err == nil {
			return status.Advance(model.StatusCompleted)
		}
	}

	// Absorbed: the item settles as complete on the event stream even
	// though no output may exist.
	o.logger.Warn("task failed",
		zap.String("session", session.ID),
		zap.String("item", item.ID),
		zap.Error(err),
	)
	return status.Advance(model.StatusError)
}

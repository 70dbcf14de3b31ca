package testdoc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/remote"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/taskid"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
	"go.uber.org/zap"
)

// Store is the remote copy of the workbook. *remote.Client implements it.
type Store interface {
	Fetch(ctx context.Context) (*remote.File, error)
	Push(ctx context.Context, content []byte, message, sha string) (*remote.PushResult, error)
}

// Result is a completed submission.
type Result struct {
	Outcome
	// Workbook is the serialized workbook after the submission. It is set
	// even when the remote push failed so the caller can still offer it.
	Workbook []byte `json:"-"`
	// Timestamp is the submission time as written into the workbook.
	Timestamp string `json:"timestamp"`
	Synced    bool   `json:"synced"`
	// Attempts counts pushes made to the remote store.
	Attempts  int    `json:"attempts,omitempty"`
	CommitSHA string `json:"commit_sha,omitempty"`
}

// Tracker runs submissions end to end: apply, serialize and push.
type Tracker struct {
	opts   Options
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithStore enables remote sync.
func WithStore(s Store) TrackerOption {
	return func(t *Tracker) { t.store = s }
}

// WithLogger sets the tracker logger.
func WithLogger(l *zap.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock overrides the submission clock.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker returns a Tracker. Without WithStore submissions stay local.
func NewTracker(opts Options, topts ...TrackerOption) *Tracker {
	t := &Tracker{
		opts:   opts,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range topts {
		o(t)
	}
	return t
}

// Options returns the tracker's submission options.
func (t *Tracker) Options() Options {
	return t.opts
}

// HasStore reports whether remote sync is enabled.
func (t *Tracker) HasStore() bool {
	return t.store != nil
}

// Load fetches the remote workbook.
func (t *Tracker) Load(ctx context.Context) (*remote.File, error) {
	if t.store == nil {
		return nil, fmt.Errorf("%w: no remote store configured", ErrWorkbookNotFound)
	}
	return t.store.Fetch(ctx)
}

// Submit applies sub to the workbook in data and pushes the result. The
// version token is fetched right before the push.
//
// When the local update succeeds but the push fails, Submit returns the
// Result together with an error wrapping ErrSyncFailed.
func (t *Tracker) Submit(ctx context.Context, data []byte, sub Submission) (*Result, error) {
	return t.submit(ctx, data, "", sub)
}

// SubmitRemote fetches the remote workbook, applies sub to it and pushes it
// back against the SHA it was fetched at.
func (t *Tracker) SubmitRemote(ctx context.Context, sub Submission) (*Result, error) {
	file, err := t.Load(ctx)
	if err != nil {
		return nil, NewSubmissionError(taskid.Normalize(sub.TaskID), StageLocate, err)
	}
	return t.submit(ctx, file.Content, file.SHA, sub)
}

func (t *Tracker) submit(ctx context.Context, data []byte, sha string, sub Submission) (*Result, error) {
	id := taskid.Normalize(sub.TaskID)
	ts := t.opts.Timestamp(t.now())
	log := t.logger.With(
		zap.String("task_id", id),
		zap.String("tester", sub.Tester),
		zap.String("verdict", string(sub.Verdict)))

	res, err := t.apply(data, sub, ts)
	if err != nil {
		log.Warn("submission rejected", zap.Error(err))
		return nil, err
	}
	log.Info("submission applied",
		zap.String("sheet", res.Block.Sheet),
		zap.Int("row", res.Block.ResultRow))

	if t.store == nil {
		return res, nil
	}

	message := t.opts.Message(res.Task.Tester, res.Task.RawID)
	for attempt := 1; ; attempt++ {
		if sha == "" {
			file, err := t.store.Fetch(ctx)
			if err != nil {
				return res, t.syncError(log, id, err)
			}
			sha = file.SHA
		}

		res.Attempts = attempt
		pushed, err := t.store.Push(ctx, res.Workbook, message, sha)
		if err == nil {
			res.Synced = true
			res.CommitSHA = pushed.CommitSHA
			log.Info("workbook synced", zap.Int("attempt", attempt), zap.String("sha", pushed.ContentSHA))
			return res, nil
		}
		if !errors.Is(err, remote.ErrConflict) || !t.opts.ShouldRetry(attempt) {
			return res, t.syncError(log, id, err)
		}

		log.Warn("remote changed, re-applying", zap.Int("attempt", attempt), zap.String("sha", sha))
		file, ferr := t.store.Fetch(ctx)
		if ferr != nil {
			return res, t.syncError(log, id, ferr)
		}
		fresh, aerr := t.apply(file.Content, sub, ts)
		if aerr != nil {
			return res, t.syncError(log, id, aerr)
		}
		fresh.Attempts = res.Attempts
		res = fresh
		sha = file.SHA
	}
}

// apply runs Apply on a fresh copy of data and serializes the result.
func (t *Tracker) apply(data []byte, sub Submission, ts string) (*Result, error) {
	id := taskid.Normalize(sub.TaskID)
	if len(data) == 0 {
		return nil, NewSubmissionError(id, StageLocate, ErrWorkbookNotFound)
	}
	wb, err := workbook.Open(data, workbook.WithMasterSheet(t.opts.MasterSheet))
	if err != nil {
		return nil, NewSubmissionError(id, StageLocate, err)
	}
	defer wb.Close()

	out, err := Apply(wb, sub, ts)
	if err != nil {
		return nil, err
	}
	serialized, err := wb.Bytes()
	if err != nil {
		return nil, NewSubmissionError(id, StageSerialize, err)
	}
	return &Result{Outcome: *out, Workbook: serialized, Timestamp: ts}, nil
}

func (t *Tracker) syncError(log *zap.Logger, id string, err error) error {
	log.Warn("workbook sync failed", zap.Error(err))
	return NewSubmissionError(id, StageSync, fmt.Errorf("%w: %w", ErrSyncFailed, err))
}

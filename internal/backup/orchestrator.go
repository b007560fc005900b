// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/fintrack/internal/logging"
	"github.com/tomtom215/fintrack/internal/metrics"
	"github.com/tomtom215/fintrack/internal/models"
)

// State is the orchestrator's lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Params carries the inputs of an operation. Only the fields relevant to
// the kind are read.
type Params struct {
	Path            string
	Handle          Handle
	ReplaceExisting bool
}

// Pruner applies count-based retention to private snapshots.
type Pruner interface {
	PrunePrivate(keep int) ([]string, error)
}

// OrchestratorOptions wires an Orchestrator.
type OrchestratorOptions struct {
	Exporter *Exporter
	Importer *Importer

	// Pruner and KeepPrivate enable retention after private exports.
	Pruner      Pruner
	KeepPrivate int

	// History records terminal outcomes when set.
	History HistoryStore

	Sinks []Sink
}

// Status is a point-in-time view of the current or last operation.
type Status struct {
	State           State            `json:"state"`
	OperationID     string           `json:"operation_id,omitempty"`
	Kind            OperationKind    `json:"kind,omitempty"`
	Progress        int              `json:"progress"`
	Max             int              `json:"max"`
	Message         string           `json:"message,omitempty"`
	ETA             string           `json:"eta,omitempty"`
	CancelRequested bool             `json:"cancel_requested,omitempty"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
	Result          *OperationResult `json:"result,omitempty"`
	Error           *Error           `json:"error,omitempty"`
}

// operation is one accepted run.
type operation struct {
	id              string
	kind            OperationKind
	params          Params
	tracker         *ProgressTracker
	cancel          context.CancelFunc
	cancelRequested bool
	startedAt       time.Time
	finishedAt      time.Time
	result          *OperationResult
	err             *Error
	state           State
}

// Orchestrator runs at most one export or import at a time on a background
// goroutine and publishes its progress and outcome to sinks.
type Orchestrator struct {
	exporter    *Exporter
	importer    *Importer
	pruner      Pruner
	keepPrivate int
	history     HistoryStore
	events      *dispatcher
	now         func() time.Time

	mu      sync.Mutex
	state   State
	current *operation
	last    *operation
	closed  bool
	wg      sync.WaitGroup
}

// NewOrchestrator creates an idle orchestrator and starts its event dispatcher.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	return &Orchestrator{
		exporter:    opts.Exporter,
		importer:    opts.Importer,
		pruner:      opts.Pruner,
		keepPrivate: opts.KeepPrivate,
		history:     opts.History,
		events:      newDispatcher(opts.Sinks),
		now:         time.Now,
		state:       StateIdle,
	}
}

// AddSink registers another event consumer.
func (o *Orchestrator) AddSink(s Sink) {
	o.events.addSink(s)
}

// Start launches an operation unless one is already running. A refused
// start is not an error: it returns accepted=false and leaves the running
// operation untouched.
func (o *Orchestrator) Start(kind OperationKind, params Params) (operationID string, accepted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		logging.Warn().Str("kind", string(kind)).Msg("Backup operation refused: orchestrator closed")
		return "", false
	}
	if o.state == StateRunning {
		logging.Info().
			Str("kind", string(kind)).
			Str("running_operation_id", o.current.id).
			Str("running_kind", string(o.current.kind)).
			Msg("Backup operation refused: another operation is running")
		metrics.RecordBackupRefused()
		return "", false
	}

	op := &operation{
		id:        logging.GenerateOperationID(),
		kind:      kind,
		params:    params,
		startedAt: o.now(),
		state:     StateRunning,
	}
	op.tracker = NewProgressTracker(func(u ProgressUpdate) {
		o.publish(op, u)
	})

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.ContextWithOperationID(ctx, op.id)
	op.cancel = cancel

	o.state = StateRunning
	o.current = op
	o.wg.Add(1)
	metrics.RecordBackupStarted()

	logging.Ctx(ctx).Info().Str("kind", string(kind)).Msg("Backup operation started")
	go o.run(ctx, op)
	return op.id, true
}

// StartExportInternal exports to the private directory.
func (o *Orchestrator) StartExportInternal() (string, bool) {
	return o.Start(OpExportInternal, Params{})
}

// StartExportExternal exports to the shared location.
func (o *Orchestrator) StartExportExternal() (string, bool) {
	return o.Start(OpExportExternal, Params{})
}

// StartImport restores the snapshot file at path.
func (o *Orchestrator) StartImport(path string, replaceExisting bool) (string, bool) {
	return o.Start(OpImportPath, Params{Path: path, ReplaceExisting: replaceExisting})
}

// StartImportHandle restores the snapshot behind h.
func (o *Orchestrator) StartImportHandle(h Handle, replaceExisting bool) (string, bool) {
	return o.Start(OpImportHandle, Params{Handle: h, ReplaceExisting: replaceExisting})
}

// Cancel requests cancellation of the running operation. It is observed at
// the next stage boundary; a stage already in progress runs to completion
// but the outcome is reported as cancelled. Returns false when nothing runs.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning || o.current == nil {
		return false
	}
	op := o.current
	if !op.cancelRequested {
		op.cancelRequested = true
		op.cancel()
		logging.Info().
			Str("operation_id", op.id).
			Str("kind", string(op.kind)).
			Msg("Backup operation cancellation requested")
	}
	return true
}

// Status reports the running operation, or the last finished one.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := Status{State: o.state, Max: DefaultProgressMax}
	op := o.current
	if op == nil {
		op = o.last
	}
	if op == nil {
		return st
	}

	snap := op.tracker.Snapshot()
	started := op.startedAt
	st.OperationID = op.id
	st.Kind = op.kind
	st.Progress = snap.Current
	st.Max = snap.Max
	st.Message = snap.Status
	st.CancelRequested = op.cancelRequested
	st.StartedAt = &started
	if op.state == StateRunning {
		st.ETA = snap.ETA
		return st
	}
	finished := op.finishedAt
	st.FinishedAt = &finished
	st.Result = op.result
	st.Error = op.err
	return st
}

// Running reports whether an operation is in progress.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateRunning
}

// Close cancels any running operation, waits for it to finish and stops
// event delivery after the remaining events are handed to sinks.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.current != nil && !o.current.cancelRequested {
		o.current.cancelRequested = true
		o.current.cancel()
	}
	o.mu.Unlock()

	o.wg.Wait()
	o.events.close()
}

func (o *Orchestrator) run(ctx context.Context, op *operation) {
	defer o.wg.Done()

	var (
		result OperationResult
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			err = NewUnknownError(fmt.Sprintf("operation panicked: %v", r), nil)
		}
		o.finish(op, &result, err)
		o.record(ctx, op)
	}()

	op.tracker.Start(startStatus(op.kind))

	switch op.kind {
	case OpExportInternal:
		result.Path, err = o.exporter.Export(ctx, DestinationPrivate, op.tracker)
		if err == nil {
			o.prune(ctx)
		}
	case OpExportExternal:
		result.Path, err = o.exporter.Export(ctx, DestinationShared, op.tracker)
	case OpImportPath:
		result.Path = op.params.Path
		result.Import, err = o.importer.ImportPath(ctx, op.params.Path, op.params.ReplaceExisting, op.tracker)
	case OpImportHandle:
		if op.params.Handle == nil {
			err = NewValidationError("handle", "no content handle given")
			break
		}
		result.Path = op.params.Handle.String()
		result.Import, err = o.importer.ImportHandle(ctx, op.params.Handle, op.params.ReplaceExisting, op.tracker)
	default:
		err = NewValidationError("kind", fmt.Sprintf("unknown operation kind %q", op.kind))
	}
}

func startStatus(kind OperationKind) string {
	if kind.IsExport() {
		return "Preparing backup"
	}
	return "Preparing restore"
}

// prune applies retention after a private export. Failures are logged only.
func (o *Orchestrator) prune(ctx context.Context) {
	if o.pruner == nil || o.keepPrivate <= 0 {
		return
	}
	deleted, err := o.pruner.PrunePrivate(o.keepPrivate)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Pruning private backups failed")
		return
	}
	if len(deleted) > 0 {
		logging.Ctx(ctx).Debug().Strs("deleted", deleted).Msg("Old private backups pruned")
	}
}

// finish moves the operation to its terminal state. Releasing the guard and
// emitting the terminal event happen under the same lock, so a sink that
// reacts to the terminal event can start the next operation.
func (o *Orchestrator) finish(op *operation, result *OperationResult, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	op.finishedAt = o.now()
	log := logging.With().
		Str("operation_id", op.id).
		Str("kind", string(op.kind)).
		Dur("duration", op.finishedAt.Sub(op.startedAt)).
		Logger()

	switch {
	case op.cancelRequested || errors.Is(err, context.Canceled):
		if err == nil {
			log.Info().Msg("Backup operation finished after cancellation was requested; reporting cancelled")
		}
		op.state = StateCancelled
		op.result = result
		op.tracker.Cancel()
		log.Info().Msg("Backup operation cancelled")
	case err != nil:
		op.state = StateFailed
		op.result = result
		op.err = AsError(err)
		op.tracker.Fail(op.err.UserMessage())
		log.Error().Err(err).Str("error_kind", string(op.err.Kind)).Msg("Backup operation failed")
	default:
		op.state = StateCompleted
		op.result = result
		op.tracker.Complete(true, completionMessage(op.kind, result))
		log.Info().Str("path", result.Path).Msg("Backup operation completed")
	}

	op.cancel()
	o.state = op.state
	o.last = op
	o.current = nil

	metrics.RecordBackupFinished(string(op.kind), string(op.state), op.finishedAt.Sub(op.startedAt))
	if result.Import != nil {
		metrics.RecordRowsImported(result.Import.TransactionsImported, result.Import.CategoriesImported)
	}
}

func completionMessage(kind OperationKind, result *OperationResult) string {
	if kind.IsExport() {
		return "Backup saved to " + result.Path
	}
	if result.Import == nil {
		return "Restore complete"
	}
	return fmt.Sprintf("Restored %d transactions and %d categories (%d categories skipped)",
		result.Import.TransactionsImported, result.Import.CategoriesImported, result.Import.CategoriesSkipped)
}

// publish turns a tracker update into an event. Terminal updates carry the
// operation's result or error, which finish sets before ending the tracker.
func (o *Orchestrator) publish(op *operation, u ProgressUpdate) {
	e := Event{
		OperationID: op.id,
		Kind:        op.kind,
		Type:        u.Type,
		Progress:    u.Current,
		Max:         u.Max,
		Status:      u.Status,
		ETA:         u.ETA,
		Timestamp:   o.now(),
	}
	switch u.Type {
	case EventCompleted:
		e.Result = op.result
	case EventFailed:
		e.Error = op.err
	}
	o.events.enqueue(e)
}

// record appends the outcome to the history store.
func (o *Orchestrator) record(ctx context.Context, op *operation) {
	if o.history == nil {
		return
	}
	rec := models.OperationRecord{
		OperationID: op.id,
		Kind:        string(op.kind),
		Outcome:     string(op.state),
		StartedAt:   op.startedAt,
		FinishedAt:  op.finishedAt,
	}
	if op.result != nil {
		rec.Path = op.result.Path
		if s := op.result.Import; s != nil {
			rec.TransactionsImported = s.TransactionsImported
			rec.CategoriesImported = s.CategoriesImported
			rec.CategoriesSkipped = s.CategoriesSkipped
		}
	}
	if op.err != nil {
		rec.ErrorKind = string(op.err.Kind)
		rec.ErrorMessage = op.err.Error()
	}

	if err := o.history.AppendHistory(context.WithoutCancel(ctx), rec); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to record backup history")
	}
}

// History returns up to limit recorded outcomes, newest first.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]models.OperationRecord, error) {
	if o.history == nil {
		return []models.OperationRecord{}, nil
	}
	return o.history.ListHistory(ctx, limit)
}

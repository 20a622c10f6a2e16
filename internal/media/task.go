// Package media implements the deduplicated media upload pipeline.
// Every file moves through a fixed sequence:
//  1. Hashing: a streaming SHA256 fingerprint of the content.
//  2. Probing: an existence check against the fingerprint-derived storage path.
//  3. Transferring (or Deduplicating on a probe hit): a chunked, cancellable
//     streaming upload with per-chunk progress.
//  4. Recording: a catalog record is created, or the existing one resolved.
//
// The fingerprint-derived path is the single deduplication key: byte-identical
// content of the same kind always lands on the same path and reuses the same
// catalog record.
package media

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// UploadTask tracks one in-flight upload attempt within a batch. Tasks are
// transient: they live from enqueue until their result is consumed and are
// never persisted.
type UploadTask struct {
	ID          string
	Index       int
	Source      FileSource
	Fingerprint string
	Status      TaskStatus

	lastPct float64
}

func newUploadTask(index int, src FileSource) *UploadTask {
	return &UploadTask{
		ID:          uuid.New().String(),
		Index:       index,
		Source:      src,
		Fingerprint: src.Fingerprint,
		Status:      StatusHashing,
	}
}

// transition advances the task status, enforcing the transition table.
func (t *UploadTask) transition(to TaskStatus) error {
	if err := ValidateTransition(t.Status, to); err != nil {
		return err
	}
	t.Status = to
	return nil
}

// emitProgress sends a non-decreasing progress event for the task. Events
// after a terminal status are dropped.
func (t *UploadTask) emitProgress(ch chan<- Progress, transferred, total int64) {
	if IsTerminalStatus(t.Status) {
		return
	}

	pct := 100.0
	if total > 0 {
		pct = float64(transferred) / float64(total) * 100
	}
	if pct > 100 {
		pct = 100
	}
	if pct < t.lastPct {
		pct = t.lastPct
	}
	t.lastPct = pct

	sendProgress(ch, Progress{
		TaskID:           t.ID,
		File:             t.Source.Name,
		BytesTransferred: transferred,
		TotalBytes:       total,
		Percentage:       pct,
	})
}

// runTask drives a single file through the pipeline stages and returns its
// terminal result. Errors never escape: they become a failed (or cancelled)
// outcome carrying the original cause.
func (p *Pipeline) runTask(ctx context.Context, task *UploadTask, uploaderID, displayName string, progressCh chan<- Progress) TaskResult {
	result := TaskResult{
		Index:   task.Index,
		File:    task.Source.Name,
		Outcome: OutcomePending,
	}

	terminate := func(to TaskStatus, err error) TaskResult {
		if terr := task.transition(to); terr != nil {
			// A table violation here is a pipeline bug, not a task failure;
			// record the terminal state anyway so no slot is left pending.
			log.Printf("WARNING: %v", terr)
			task.Status = to
		}
		result.Outcome = outcomeForStatus(to)
		result.Err = err
		return result
	}
	fail := func(err error) TaskResult {
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
			return terminate(StatusCancelled, ErrCancelled)
		}
		return terminate(StatusFailed, err)
	}

	// Stage 1: fingerprint the source, unless precomputed upstream.
	if ctx.Err() != nil {
		return terminate(StatusCancelled, ErrCancelled)
	}
	if task.Fingerprint == "" {
		digest, err := FingerprintFile(task.Source.Path)
		if err != nil {
			return fail(err)
		}
		task.Fingerprint = digest
	}
	if err := task.transition(StatusProbing); err != nil {
		return fail(err)
	}

	// Stage 2: existence probe. A probe failure is "unknown", so the task
	// fails instead of guessing.
	if ctx.Err() != nil {
		return terminate(StatusCancelled, ErrCancelled)
	}
	path, found, err := p.prober.Probe(ctx, task.Fingerprint, task.Source.Kind, task.Source.Size)
	if err != nil {
		return fail(err)
	}
	result.StoragePath = path

	if found {
		// Stage 3b: duplicate short-circuit. One progress event at 100,
		// no transfer, reuse the existing record.
		if err := task.transition(StatusDeduplicating); err != nil {
			return fail(err)
		}
		task.emitProgress(progressCh, task.Source.Size, task.Source.Size)

		if err := task.transition(StatusRecording); err != nil {
			return fail(err)
		}
		mediaID, err := p.recorder.ResolveExisting(ctx, path)
		if err != nil {
			return fail(err)
		}
		result.MediaID = mediaID
		return terminate(StatusDuplicate, nil)
	}

	// Stage 3a: transfer.
	if err := task.transition(StatusTransferring); err != nil {
		return fail(err)
	}
	written, err := p.transfer.Put(ctx, task.Source, path, func(transferred, total int64) {
		task.emitProgress(progressCh, transferred, total)
	})
	result.BytesTransferred = written
	if err != nil {
		return fail(err)
	}
	if task.lastPct < 100 {
		task.emitProgress(progressCh, task.Source.Size, task.Source.Size)
	}

	// Stage 4: record the new media.
	if err := task.transition(StatusRecording); err != nil {
		return fail(err)
	}
	mediaID, err := p.recorder.RecordNew(ctx, &MediaRecord{
		DisplayName: displayName,
		StoragePath: path,
		Kind:        task.Source.Kind,
		UploaderID:  uploaderID,
	})
	if err != nil {
		return fail(err)
	}
	result.MediaID = mediaID
	return terminate(StatusUploaded, nil)
}

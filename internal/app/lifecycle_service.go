package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmind/internal/model"
)

// TeardownReport aggregates the outcome of one cascading-deletion run.
// Per-step failures are collected here instead of aborting the saga.
type TeardownReport struct {
	Participants   int      `json:"participants"`
	Documents      int      `json:"documents"`
	Snaps          int      `json:"snaps"`
	Stories        int      `json:"stories"`
	StorageFiles   int      `json:"storage_files"`
	VectorsDeleted bool     `json:"vectors_deleted"`
	Errors         []string `json:"errors"`
}

func (r *TeardownReport) fail(step string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", step, err))
}

// LifecycleService tears down all state owned by an event: participants
// (and their denormalized user fields), documents, snaps, stories, the
// vector namespace, leftover storage files, and finally the event record.
// Every step except the last is best-effort; steps are idempotent so a
// retried run converges.
type LifecycleService struct {
	events       EventStore
	participants ParticipantStore
	users        UserStore
	assets       AssetStore
	snaps        SnapStore
	stories      StoryStore
	index        VectorIndex
	objects      ObjectStore
	grace        time.Duration
	logger       *slog.Logger
}

func NewLifecycleService(
	events EventStore,
	participants ParticipantStore,
	users UserStore,
	assets AssetStore,
	snaps SnapStore,
	stories StoryStore,
	index VectorIndex,
	objects ObjectStore,
	grace time.Duration,
	logger *slog.Logger,
) *LifecycleService {
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &LifecycleService{
		events:       events,
		participants: participants,
		users:        users,
		assets:       assets,
		snaps:        snaps,
		stories:      stories,
		index:        index,
		objects:      objects,
		grace:        grace,
		logger:       logger,
	}
}

// EndEvent is the host-invoked immediate teardown. The caller must be the
// event's host unless the event has already passed its expiry cutoff.
func (s *LifecycleService) EndEvent(ctx context.Context, eventID string, callerID uint) (*TeardownReport, error) {
	if eventID == "" || callerID == 0 {
		return nil, ErrInvalidInput
	}
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	if callerID != event.HostID && !s.isExpired(event) {
		return nil, fmt.Errorf("%w: only the host may end event %s", ErrPermissionDenied, eventID)
	}
	return s.teardown(ctx, event, model.EventStatusEnded)
}

// DeleteExpiredContent tears down an event past its grace cutoff.
// forceDelete bypasses the expiry check entirely.
func (s *LifecycleService) DeleteExpiredContent(ctx context.Context, eventID string, forceDelete bool) (*TeardownReport, error) {
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	if !forceDelete && !s.isExpired(event) {
		return nil, fmt.Errorf("%w: event %s is not expired", ErrPermissionDenied, eventID)
	}
	return s.teardown(ctx, event, model.EventStatusExpired)
}

// SweepExpired tears down every event whose end time is older than the
// grace cutoff. Failures are logged per event and the sweep continues;
// events that failed remain selectable and are retried on the next cycle.
func (s *LifecycleService) SweepExpired(ctx context.Context) (deleted, failed int) {
	cutoff := time.Now().Add(-s.grace)
	events, err := s.events.ListEndedBefore(cutoff)
	if err != nil {
		s.logger.Error("expired event sweep: listing failed", "error", err)
		return 0, 0
	}

	for _, event := range events {
		report, err := s.teardown(ctx, &event, model.EventStatusExpired)
		if err != nil {
			failed++
			s.logger.Error("expired event teardown failed",
				"event_id", event.ID, "error", err)
			continue
		}
		deleted++
		if len(report.Errors) > 0 {
			s.logger.Warn("expired event teardown finished with partial failures",
				"event_id", event.ID, "errors", report.Errors)
		}
	}
	return deleted, failed
}

func (s *LifecycleService) isExpired(event *model.Event) bool {
	if event.Status == model.EventStatusExpired {
		return true
	}
	return !event.EndTime.IsZero() && time.Now().After(event.EndTime.Add(s.grace))
}

// teardown runs the deletion saga. The event is first moved to its
// terminal status so a partially failed run is visibly flagged and stays
// out of active flows. All steps except the last are best-effort: each
// failure is recorded in the report and the saga continues. Deleting the
// event record itself is fatal on failure, since an orphaned event row is
// an inconsistent terminal state worth alerting on.
func (s *LifecycleService) teardown(ctx context.Context, event *model.Event, status string) (*TeardownReport, error) {
	report := &TeardownReport{Errors: []string{}}

	if event.Status != status {
		if err := s.events.UpdateStatus(event.ID, status); err != nil {
			report.fail("mark event "+status, err)
		} else {
			event.Status = status
		}
	}

	s.removeParticipants(event, report)
	s.removeAssets(ctx, event, report)
	s.removeSnaps(ctx, event, report)
	s.removeStories(ctx, event, report)

	if err := s.index.DeleteNamespace(ctx, event.ID); err != nil {
		report.fail("delete vector namespace", err)
	} else {
		report.VectorsDeleted = true
	}

	if n, err := s.objects.DeletePrefix(ctx, "events/"+event.ID+"/"); err != nil {
		report.fail("sweep storage prefix", err)
	} else {
		report.StorageFiles += n
	}

	if err := s.events.Delete(event.ID); err != nil {
		return report, fmt.Errorf("delete event record %s: %w", event.ID, err)
	}

	s.logger.Info("event teardown complete",
		"event_id", event.ID,
		"participants", report.Participants,
		"documents", report.Documents,
		"snaps", report.Snaps,
		"stories", report.Stories,
		"storage_files", report.StorageFiles,
		"vectors_deleted", report.VectorsDeleted,
		"step_errors", len(report.Errors))
	return report, nil
}

func (s *LifecycleService) removeParticipants(event *model.Event, report *TeardownReport) {
	participants, err := s.participants.ListByEventID(event.ID)
	if err != nil {
		report.fail("list participants", err)
		return
	}
	if len(participants) == 0 {
		return
	}

	userIDs := make([]uint, len(participants))
	ids := make([]uint, len(participants))
	for i, p := range participants {
		userIDs[i] = p.UserID
		ids[i] = p.ID
	}

	// Denormalized user fields first, then the membership rows, so a crash
	// between the two never leaves a user pointing at a dead event.
	if err := s.users.ClearEventFields(userIDs, event.ID); err != nil {
		report.fail("clear user event fields", err)
	}
	if err := s.participants.DeleteByIDs(ids); err != nil {
		report.fail("delete participants", err)
		return
	}
	report.Participants = len(participants)
}

func (s *LifecycleService) removeAssets(ctx context.Context, event *model.Event, report *TeardownReport) {
	assets, err := s.assets.ListByEventID(event.ID)
	if err != nil {
		report.fail("list assets", err)
		return
	}
	if len(assets) == 0 {
		return
	}

	paths := make([]string, len(assets))
	for i, a := range assets {
		paths[i] = a.StoragePath
	}
	if err := s.assets.DeleteByPaths(paths); err != nil {
		report.fail("delete asset records", err)
		return
	}
	report.Documents = len(assets)
	report.StorageFiles += s.deleteFiles(ctx, paths, report, "delete asset file")
}

func (s *LifecycleService) removeSnaps(ctx context.Context, event *model.Event, report *TeardownReport) {
	snaps, err := s.snaps.ListByEventID(event.ID)
	if err != nil {
		report.fail("list snaps", err)
		return
	}
	if len(snaps) == 0 {
		return
	}

	ids := make([]uint, len(snaps))
	paths := make([]string, len(snaps))
	for i, snap := range snaps {
		ids[i] = snap.ID
		paths[i] = snap.StoragePath
	}
	if err := s.snaps.DeleteByIDs(ids); err != nil {
		report.fail("delete snap records", err)
		return
	}
	report.Snaps = len(snaps)
	report.StorageFiles += s.deleteFiles(ctx, paths, report, "delete snap file")
}

func (s *LifecycleService) removeStories(ctx context.Context, event *model.Event, report *TeardownReport) {
	stories, err := s.stories.ListByEventID(event.ID)
	if err != nil {
		report.fail("list stories", err)
		return
	}
	if len(stories) == 0 {
		return
	}

	ids := make([]uint, len(stories))
	paths := make([]string, len(stories))
	for i, story := range stories {
		ids[i] = story.ID
		paths[i] = story.StoragePath
	}
	if err := s.stories.DeleteByIDs(ids); err != nil {
		report.fail("delete story records", err)
		return
	}
	report.Stories = len(stories)
	report.StorageFiles += s.deleteFiles(ctx, paths, report, "delete story file")
}

func (s *LifecycleService) deleteFiles(ctx context.Context, paths []string, report *TeardownReport, step string) int {
	deleted := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.objects.Delete(ctx, p); err != nil {
			report.fail(step, err)
			continue
		}
		deleted++
	}
	return deleted
}

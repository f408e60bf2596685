package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/moderation-safety/report-service/domain/entities"
	domainerrors "agora/contexts/moderation-safety/report-service/domain/errors"
	"agora/contexts/moderation-safety/report-service/ports"
	"agora/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store backs the report service in tests and local development. It carries
// content and actor projections plus an in-memory outbox so a single store
// serves every port the service needs.
type Store struct {
	mu            sync.Mutex
	reports       map[string]entities.Report
	open          map[string]string // reporter|target -> report id, PENDING only
	contents      map[string]ports.TargetInfo
	commentCounts map[string]int // post id -> cached live-comment counter
	actors        map[string]actorRow
	outbox        *outbox.MemoryStore
}

type actorRow struct {
	ActorID   string
	Username  string
	Staff     bool
	Suspended bool
}

func NewStore() *Store {
	return &Store{
		reports:       map[string]entities.Report{},
		open:          map[string]string{},
		contents:      map[string]ports.TargetInfo{},
		commentCounts: map[string]int{},
		actors: map[string]actorRow{
			"user-1": {ActorID: "user-1", Username: "ada"},
			"user-2": {ActorID: "user-2", Username: "brook"},
			"mod-1":  {ActorID: "mod-1", Username: "casey", Staff: true},
		},
		outbox: outbox.NewMemoryStore(),
	}
}

func (s *Store) GetTargetInfo(ctx context.Context, contentID string) (ports.TargetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.contents[strings.TrimSpace(contentID)]
	if !ok {
		return ports.TargetInfo{}, domainerrors.ErrContentNotFound
	}
	return target, nil
}

func (s *Store) Submit(ctx context.Context, cmd ports.SubmitCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := openKey(cmd.Report.ReporterID, cmd.Report.TargetID)
	if _, exists := s.open[key]; exists {
		return domainerrors.ErrDuplicateReport
	}
	s.reports[cmd.Report.ReportID] = cmd.Report
	s.open[key] = cmd.Report.ReportID
	if cmd.Event != nil {
		return s.outbox.Append(ctx, *cmd.Event)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, reportID string) (entities.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[strings.TrimSpace(reportID)]
	if !ok {
		return entities.Report{}, domainerrors.ErrReportNotFound
	}
	return rep, nil
}

func (s *Store) ListReports(ctx context.Context, filter ports.ListFilter) ([]entities.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Report, 0, len(s.reports))
	for _, rep := range s.reports {
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		items = append(items, rep)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Offset >= len(items) {
		return []entities.Report{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Report(nil), items[filter.Offset:end]...), nil
}

func (s *Store) FinalizeDecision(ctx context.Context, cmd ports.DecisionCommand) (entities.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[cmd.ReportID]
	if !ok {
		return entities.Report{}, domainerrors.ErrReportNotFound
	}
	// Compare-and-set inside the critical section: the second of two racing
	// reviewers finds the status already flipped.
	if rep.Status != entities.StatusPending {
		return entities.Report{}, domainerrors.ErrAlreadyReviewed
	}

	now := cmd.Now.UTC()
	rep.ReviewerID = cmd.ReviewerID
	rep.ReviewNote = cmd.Note
	rep.ReviewedAt = &now
	rep.UpdatedAt = now

	if cmd.Decision == ports.DecisionApprove {
		rep.Status = entities.StatusApproved
		target, exists := s.contents[rep.TargetID]
		if exists && !target.Deleted {
			rep.OriginalTitle = target.Title
			rep.OriginalContent = target.Body
			rep.OriginalAuthor = target.AuthorID
			target.Deleted = true
			s.contents[target.ContentID] = target
			// Flagging a comment keeps the owning post's cached counter in
			// step with the live comment set, floored at zero.
			if target.Kind == "comment" && target.PostID != "" {
				if count := s.commentCounts[target.PostID]; count > 0 {
					s.commentCounts[target.PostID] = count - 1
				}
			}
		} else {
			// Target vanished before review; approval proceeds on placeholders.
			rep.OriginalTitle = entities.PlaceholderTitle
			rep.OriginalContent = entities.PlaceholderBody
			rep.OriginalAuthor = entities.PlaceholderAuthor
		}
	} else {
		rep.Status = entities.StatusRejected
	}

	s.reports[rep.ReportID] = rep
	delete(s.open, openKey(rep.ReporterID, rep.TargetID))
	if cmd.Event != nil {
		if err := s.outbox.Append(ctx, *cmd.Event); err != nil {
			return entities.Report{}, err
		}
	}
	return rep, nil
}

func (s *Store) Withdraw(ctx context.Context, reportID string, reporterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[strings.TrimSpace(reportID)]
	if !ok {
		return domainerrors.ErrReportNotFound
	}
	if !strings.EqualFold(rep.ReporterID, strings.TrimSpace(reporterID)) {
		return domainerrors.ErrForbidden
	}
	if rep.Status != entities.StatusPending {
		return domainerrors.ErrAlreadyReviewed
	}
	delete(s.reports, rep.ReportID)
	delete(s.open, openKey(rep.ReporterID, rep.TargetID))
	return nil
}

func (s *Store) ResolveActive(ctx context.Context, actorID string) (ports.ActorInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.actors[strings.TrimSpace(actorID)]
	if !ok || actor.Suspended {
		return ports.ActorInfo{}, domainerrors.ErrForbidden
	}
	return ports.ActorInfo{ActorID: actor.ActorID, Username: actor.Username}, nil
}

func (s *Store) CanReview(ctx context.Context, actorID string) (bool, error) {
	if _, err := s.ResolveActive(ctx, actorID); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actors[strings.TrimSpace(actorID)].Staff, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Outbox exposes the in-memory outbox for relay wiring and tests.
func (s *Store) Outbox() *outbox.MemoryStore {
	return s.outbox
}

// SeedContent installs a row in the content projection and keeps the owning
// post's cached comment counter in step. Test helper.
func (s *Store) SeedContent(target ports.TargetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if previous, ok := s.contents[target.ContentID]; ok && liveComment(previous) {
		if count := s.commentCounts[previous.PostID]; count > 0 {
			s.commentCounts[previous.PostID] = count - 1
		}
	}
	if liveComment(target) {
		s.commentCounts[target.PostID]++
	}
	s.contents[target.ContentID] = target
}

// CommentCount reads the cached counter of the owning post. Test helper.
func (s *Store) CommentCount(postID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commentCounts[postID]
}

func liveComment(target ports.TargetInfo) bool {
	return target.Kind == "comment" && target.PostID != "" && !target.Deleted
}

// ContentDeleted reads the soft-delete flag from the content projection.
// Test helper.
func (s *Store) ContentDeleted(contentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contents[contentID].Deleted
}

// SuspendActor flips the suspension flag in the actor projection. Test helper.
func (s *Store) SuspendActor(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if actor, ok := s.actors[actorID]; ok {
		actor.Suspended = true
		s.actors[actorID] = actor
	}
}

func openKey(reporterID string, targetID string) string {
	return strings.ToLower(strings.TrimSpace(reporterID)) + "|" + strings.TrimSpace(targetID)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Capabilities = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)

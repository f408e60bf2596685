package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/moderation-safety/report-service/domain/entities"
	domainerrors "agora/contexts/moderation-safety/report-service/domain/errors"
	"agora/contexts/moderation-safety/report-service/ports"
	sharedoutbox "agora/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sourceService = "moderation-safety/report-service"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetTargetInfo(ctx context.Context, contentID string) (ports.TargetInfo, error) {
	var row targetRow
	err := r.db.WithContext(ctx).
		Table("content").
		Select("id", "kind", "author_id", "post_id", "title", "body", "is_deleted").
		Where("id = ?", strings.TrimSpace(contentID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TargetInfo{}, domainerrors.ErrContentNotFound
		}
		return ports.TargetInfo{}, r.logError("report_repo_get_target_failed", err,
			"content_id", strings.TrimSpace(contentID),
		)
	}
	return row.toTargetInfo(), nil
}

// Submit inserts the report and its outbox message in one transaction. The
// partial unique index on (reporter_id, target_id) WHERE status = 'PENDING'
// turns a duplicate open report into a unique violation.
func (r *Repository) Submit(ctx context.Context, cmd ports.SubmitCommand) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := modelFromReport(cmd.Report)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if cmd.Event != nil {
			if err := sharedoutbox.Append(tx, sourceService, *cmd.Event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateReport
		}
		return r.logError("report_repo_submit_failed", err,
			"report_id", cmd.Report.ReportID,
			"reporter_id", cmd.Report.ReporterID,
			"target_id", cmd.Report.TargetID,
		)
	}
	return nil
}

func (r *Repository) GetReport(ctx context.Context, reportID string) (entities.Report, error) {
	var row reportModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(reportID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Report{}, domainerrors.ErrReportNotFound
		}
		return entities.Report{}, r.logError("report_repo_get_failed", err,
			"report_id", strings.TrimSpace(reportID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListReports(ctx context.Context, filter ports.ListFilter) ([]entities.Report, error) {
	query := r.db.WithContext(ctx).Model(&reportModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var rows []reportModel
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("report_repo_list_failed", err)
	}
	items := make([]entities.Report, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// FinalizeDecision locks the report row, compare-and-sets PENDING, and for
// approvals snapshots and soft-deletes the target, one transaction for the
// lot. Lock order is report first, content second; every writer that touches
// both tables follows it.
func (r *Repository) FinalizeDecision(ctx context.Context, cmd ports.DecisionCommand) (entities.Report, error) {
	var row reportModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cmd.ReportID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrReportNotFound
			}
			return err
		}
		if entities.ReportStatus(row.Status) != entities.StatusPending {
			return domainerrors.ErrAlreadyReviewed
		}

		now := cmd.Now.UTC()
		row.ReviewerID = optional(cmd.ReviewerID)
		row.ReviewNote = optional(cmd.Note)
		row.ReviewedAt = &now
		row.UpdatedAt = now

		if cmd.Decision == ports.DecisionApprove {
			row.Status = string(entities.StatusApproved)
			if err := r.snapshotAndFlagTarget(tx, &row, now); err != nil {
				return err
			}
		} else {
			row.Status = string(entities.StatusRejected)
		}

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if cmd.Event != nil {
			if err := sharedoutbox.Append(tx, sourceService, *cmd.Event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrReportNotFound) || errors.Is(err, domainerrors.ErrAlreadyReviewed) {
			return entities.Report{}, err
		}
		return entities.Report{}, r.logError("report_repo_finalize_failed", err,
			"report_id", cmd.ReportID,
			"decision", string(cmd.Decision),
		)
	}
	return row.toEntity(), nil
}

// snapshotAndFlagTarget copies the live target into the report's snapshot
// columns and flips its soft-delete flag. A vanished target yields placeholder
// text; the approval still lands. The cascade is shallow, a post's comments
// stay untouched; flagging a comment keeps the owning post's cached counter in
// step with the live comment set.
func (r *Repository) snapshotAndFlagTarget(tx *gorm.DB, row *reportModel, now time.Time) error {
	var target targetRow
	err := tx.Table("content").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "kind", "author_id", "title", "body", "is_deleted", "post_id").
		Where("id = ?", row.TargetID).
		Take(&target).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || target.IsDeleted {
		row.OriginalTitle = optional(entities.PlaceholderTitle)
		row.OriginalContent = optional(entities.PlaceholderBody)
		row.OriginalAuthor = optional(entities.PlaceholderAuthor)
		return nil
	}

	row.OriginalTitle = optional(target.Title)
	row.OriginalContent = optional(target.Body)
	row.OriginalAuthor = optional(target.AuthorID)

	if err := tx.Table("content").
		Where("id = ?", target.ID).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}).Error; err != nil {
		return err
	}
	if target.Kind == "comment" && target.PostID != nil {
		if err := tx.Table("content").
			Where("id = ?", *target.PostID).
			Updates(map[string]any{
				"comment_count": gorm.Expr("GREATEST(comment_count - 1, 0)"),
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Withdraw deletes the row while it is still PENDING. The status predicate
// makes it a compare-and-set: losing to a concurrent review leaves zero rows
// affected.
func (r *Repository) Withdraw(ctx context.Context, reportID string, reporterID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(reportID)).
		Where("reporter_id = ?", strings.TrimSpace(reporterID)).
		Where("status = ?", string(entities.StatusPending)).
		Delete(&reportModel{})
	if result.Error != nil {
		return r.logError("report_repo_withdraw_failed", result.Error,
			"report_id", strings.TrimSpace(reportID),
		)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	rep, err := r.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(rep.ReporterID, strings.TrimSpace(reporterID)) {
		return domainerrors.ErrForbidden
	}
	return domainerrors.ErrAlreadyReviewed
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", sourceService,
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("report repository operation failed", fields...)
	return err
}

type reportModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	ReporterID      string     `gorm:"column:reporter_id"`
	TargetType      string     `gorm:"column:target_type"`
	TargetID        string     `gorm:"column:target_id"`
	Reason          string     `gorm:"column:reason"`
	Details         string     `gorm:"column:details"`
	Status          string     `gorm:"column:status"`
	ReviewerID      *string    `gorm:"column:reviewer_id"`
	ReviewNote      *string    `gorm:"column:review_note"`
	OriginalTitle   *string    `gorm:"column:original_title"`
	OriginalContent *string    `gorm:"column:original_content"`
	OriginalAuthor  *string    `gorm:"column:original_author"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
}

func (reportModel) TableName() string {
	return "reports"
}

type targetRow struct {
	ID        string  `gorm:"column:id"`
	Kind      string  `gorm:"column:kind"`
	AuthorID  string  `gorm:"column:author_id"`
	Title     string  `gorm:"column:title"`
	Body      string  `gorm:"column:body"`
	IsDeleted bool    `gorm:"column:is_deleted"`
	PostID    *string `gorm:"column:post_id"`
}

func (t targetRow) toTargetInfo() ports.TargetInfo {
	return ports.TargetInfo{
		ContentID: t.ID,
		Kind:      t.Kind,
		AuthorID:  t.AuthorID,
		PostID:    deref(t.PostID),
		Title:     t.Title,
		Body:      t.Body,
		Deleted:   t.IsDeleted,
	}
}

func modelFromReport(rep entities.Report) reportModel {
	return reportModel{
		ID:         rep.ReportID,
		ReporterID: rep.ReporterID,
		TargetType: string(rep.TargetType),
		TargetID:   rep.TargetID,
		Reason:     rep.Reason,
		Details:    rep.Details,
		Status:     string(rep.Status),
		CreatedAt:  rep.CreatedAt.UTC(),
		UpdatedAt:  rep.UpdatedAt.UTC(),
	}
}

func (m reportModel) toEntity() entities.Report {
	rep := entities.Report{
		ReportID:        m.ID,
		ReporterID:      m.ReporterID,
		TargetType:      entities.TargetType(m.TargetType),
		TargetID:        m.TargetID,
		Reason:          m.Reason,
		Details:         m.Details,
		Status:          entities.ReportStatus(m.Status),
		ReviewerID:      deref(m.ReviewerID),
		ReviewNote:      deref(m.ReviewNote),
		OriginalTitle:   deref(m.OriginalTitle),
		OriginalContent: deref(m.OriginalContent),
		OriginalAuthor:  deref(m.OriginalAuthor),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.ReviewedAt != nil {
		reviewedAt := m.ReviewedAt.UTC()
		rep.ReviewedAt = &reviewedAt
	}
	return rep
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)

package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/entities"
	domainerrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const leadInsertBatchSize = 200

// Repository stores leads and events through gorm. It runs against both the
// postgres and sqlite dialectors.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the leads and events tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&leadModel{}, &eventModel{})
}

func (r *Repository) InsertLead(ctx context.Context, lead entities.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}
	row := leadModelFromEntity(lead)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateLead
		}
		return fmt.Errorf("insert lead %d: %w", lead.LeadID, err)
	}
	return nil
}

func (r *Repository) InsertLeads(ctx context.Context, leads []entities.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	rows := make([]leadModel, 0, len(leads))
	for _, lead := range leads {
		if err := lead.Validate(); err != nil {
			return err
		}
		rows = append(rows, leadModelFromEntity(lead))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, leadInsertBatchSize).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateLead
		}
		return fmt.Errorf("insert lead batch: %w", err)
	}
	return nil
}

func (r *Repository) ListLeads(ctx context.Context, filter ports.LeadFilter) ([]entities.Lead, error) {
	tx := r.db.WithContext(ctx).Model(&leadModel{})
	if industry := strings.TrimSpace(filter.Industry); industry != "" {
		tx = tx.Where("LOWER(industry) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(industry))+"%")
	}
	if filter.MinSize > 0 {
		tx = tx.Where("size >= ?", filter.MinSize)
	}

	var rows []leadModel
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	items := make([]entities.Lead, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetLead(ctx context.Context, leadID int64) (entities.Lead, error) {
	var row leadModel
	err := r.db.WithContext(ctx).
		Where("id = ?", leadID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Lead{}, domainerrors.ErrLeadNotFound
		}
		return entities.Lead{}, fmt.Errorf("get lead %d: %w", leadID, err)
	}
	return row.toEntity(), nil
}

func (r *Repository) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&leadModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}

func (r *Repository) AppendEvent(ctx context.Context, event entities.NewEvent) (entities.Event, error) {
	if err := event.Validate(); err != nil {
		return entities.Event{}, err
	}
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	row := eventModel{
		Action:    event.Action,
		Timestamp: timestamp.UTC(),
	}
	if !event.Data.IsNull() {
		payload, err := event.Data.MarshalJSON()
		if err != nil {
			return entities.Event{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidEvent, err)
		}
		row.Data = datatypes.JSON(payload)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Event{}, fmt.Errorf("append event: %w", err)
	}
	return entities.Event{
		EventID:   row.ID,
		Action:    row.Action,
		Data:      event.Data,
		Timestamp: row.Timestamp,
	}, nil
}

func (r *Repository) ListEvents(ctx context.Context) ([]entities.Event, error) {
	return r.findEvents(ctx, r.db.WithContext(ctx))
}

func (r *Repository) ListEventsByAction(ctx context.Context, action string) ([]entities.Event, error) {
	return r.findEvents(ctx, r.db.WithContext(ctx).Where("action = ?", action))
}

func (r *Repository) ListEventsInRange(ctx context.Context, start time.Time, end time.Time) ([]entities.Event, error) {
	return r.findEvents(ctx, r.db.WithContext(ctx).
		Where(clause.Gte{Column: clause.Column{Name: "timestamp"}, Value: start.UTC()}).
		Where(clause.Lt{Column: clause.Column{Name: "timestamp"}, Value: end.UTC()}),
	)
}

func (r *Repository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&eventModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (r *Repository) findEvents(ctx context.Context, tx *gorm.DB) ([]entities.Event, error) {
	var rows []eventModel
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	items := make([]entities.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.eventFromModel(ctx, row))
	}
	return items, nil
}

// eventFromModel never fails: an unreadable payload is logged and read as null
// so aggregate reports can skip it.
func (r *Repository) eventFromModel(ctx context.Context, row eventModel) entities.Event {
	data, err := entities.ParseValue(row.Data)
	if err != nil {
		r.logger.WarnContext(ctx, "stored event payload is malformed",
			"event", "event_payload_malformed",
			"module", "sales-intelligence/lead-qualification-service",
			"layer", "adapter",
			"event_id", row.ID,
			"error", fmt.Errorf("%w: %v", domainerrors.ErrMalformedPayload, err).Error(),
		)
		data = entities.Null()
	}
	return entities.Event{
		EventID:   row.ID,
		Action:    row.Action,
		Data:      data,
		Timestamp: row.Timestamp.UTC(),
	}
}

type leadModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Company   string    `gorm:"column:company;size:255;not null"`
	Industry  string    `gorm:"column:industry;size:100;not null;index"`
	Size      int       `gorm:"column:size;not null;index"`
	Source    string    `gorm:"column:source;size:100;not null"`
	Quality   string    `gorm:"column:quality;size:20;not null"`
	Summary   string    `gorm:"column:summary;size:1000;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (leadModel) TableName() string {
	return "leads"
}

func leadModelFromEntity(lead entities.Lead) leadModel {
	return leadModel{
		ID:        lead.LeadID,
		Name:      lead.Name,
		Company:   lead.Company,
		Industry:  lead.Industry,
		Size:      lead.Size,
		Source:    lead.Source,
		Quality:   string(lead.Quality),
		Summary:   lead.Summary,
		CreatedAt: lead.CreatedAt.UTC(),
	}
}

func (m leadModel) toEntity() entities.Lead {
	return entities.Lead{
		LeadID:    m.ID,
		Name:      m.Name,
		Company:   m.Company,
		Industry:  m.Industry,
		Size:      m.Size,
		Source:    m.Source,
		Quality:   entities.Quality(m.Quality),
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type eventModel struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Action    string         `gorm:"column:action;size:100;not null;index"`
	Data      datatypes.JSON `gorm:"column:data"`
	Timestamp time.Time      `gorm:"column:timestamp;not null;index"`
}

func (eventModel) TableName() string {
	return "events"
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

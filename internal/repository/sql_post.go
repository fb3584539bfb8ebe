package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"portfolio/internal/database"
	"portfolio/internal/models"
	"portfolio/internal/observability"

	"gorm.io/gorm"
)

// sqlPostRepository implements PostRepository on a relational table through GORM.
type sqlPostRepository struct {
	db      *gorm.DB
	table   string
	system  string
	metrics *observability.StoreMetrics
	log     *observability.RepoLogger
}

// NewSQLPostRepository creates a post repository over table, which may be schema-qualified.
func NewSQLPostRepository(db *gorm.DB, table string) PostRepository {
	system := db.Dialector.Name()
	return &sqlPostRepository{
		db:      db,
		table:   table,
		system:  system,
		metrics: observability.NewStoreMetrics(system),
		log:     observability.NewRepoLogger(system, table),
	}
}

func (r *sqlPostRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *sqlPostRepository) fail(ctx context.Context, operation string, err error) error {
	r.metrics.RecordError(operation)
	r.log.LogError(ctx, err, operation)
	return fmt.Errorf("%s post: %w", operation, err)
}

func parseRowID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func (r *sqlPostRepository) List(ctx context.Context) (posts []models.Post, err error) {
	defer r.metrics.TrackQuery("list")()
	ctx, span := observability.StartStoreSpan(ctx, r.system, "list", r.table)
	defer func() { observability.EndSpan(span, err) }()

	var rows []models.PostRecord
	if err := r.query(ctx).Find(&rows).Error; err != nil {
		return nil, r.fail(ctx, "list", err)
	}

	posts = make([]models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.ToPost())
	}
	r.log.LogRead(ctx, map[string]any{"count": len(posts)})
	return posts, nil
}

func (r *sqlPostRepository) GetByID(ctx context.Context, id string) (post *models.Post, err error) {
	n, ok := parseRowID(id)
	if !ok {
		return nil, ErrPostNotFound
	}

	defer r.metrics.TrackQuery("get")()
	ctx, span := observability.StartStoreSpan(ctx, r.system, "get", r.table)
	defer func() { observability.EndSpan(span, err) }()

	var row models.PostRecord
	if err := r.query(ctx).Where("id = ?", n).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, r.fail(ctx, "get", err)
	}

	p := row.ToPost()
	r.log.LogRead(ctx, map[string]any{"post_id": p.ID})
	return &p, nil
}

func (r *sqlPostRepository) Create(ctx context.Context, post *models.Post) (err error) {
	defer r.metrics.TrackQuery("create")()
	ctx, span := observability.StartStoreSpan(ctx, r.system, "create", r.table)
	defer func() { observability.EndSpan(span, err) }()

	row := models.NewPostRecord(post)
	if err := r.query(ctx).Create(&row).Error; err != nil {
		return r.fail(ctx, "create", err)
	}

	post.ID = strconv.FormatUint(row.ID, 10)
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID})
	return nil
}

func (r *sqlPostRepository) Update(ctx context.Context, id string, fields models.PostFields, modifiedAt time.Time) (err error) {
	n, ok := parseRowID(id)
	if !ok {
		return ErrPostNotFound
	}

	defer r.metrics.TrackQuery("update")()
	ctx, span := observability.StartStoreSpan(ctx, r.system, "update", r.table)
	defer func() { observability.EndSpan(span, err) }()

	cols := fields.Columns()
	cols["modified_at"] = modifiedAt.UTC()

	res := r.query(ctx).Where("id = ?", n).Updates(cols)
	if res.Error != nil {
		return r.fail(ctx, "update", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}

	r.log.LogUpdate(ctx, map[string]any{"post_id": id, "fields": len(cols) - 1})
	return nil
}

func (r *sqlPostRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", r.system, err)
	}
	return nil
}

func (r *sqlPostRepository) Close(_ context.Context) error {
	return database.Close(r.db)
}

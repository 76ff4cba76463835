package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

type ProjectRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var projectColumns = []string{"id", "owner_id", "slug", "title", "description", "status", "tags", "created_at", "updated_at"}

func (r *ProjectRepo) SaveProject(ctx context.Context, project models.Project) (uuid.UUID, error) {
	const op = "repository.project_repository.SaveProject"

	now := time.Now().UTC()

	query, args, err := r.sb.Insert("projects").
		Columns("owner_id", "slug", "title", "description", "status", "tags", "created_at", "updated_at").
		Values(project.OwnerID, project.Slug, project.Title, project.Description, project.Status, pq.Array(project.Tags), now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ProjectRepo) ProjectByID(ctx context.Context, projectID uuid.UUID) (models.Project, error) {
	const op = "repository.project_repository.ProjectByID"

	query, args, err := r.sb.Select(projectColumns...).From("projects").Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return models.Project{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanProject(ctx, op, query, args)
}

func (r *ProjectRepo) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	const op = "repository.project_repository.ProjectBySlug"

	query, args, err := r.sb.Select(projectColumns...).From("projects").Where(sq.Eq{"slug": slug}).ToSql()
	if err != nil {
		return models.Project{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.scanProject(ctx, op, query, args)
}

func (r *ProjectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.project_repository.SlugExists"

	query, args, err := r.sb.Select("1").From("projects").Where(sq.Eq{"slug": slug}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *ProjectRepo) UpdateProjectFields(ctx context.Context, projectID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.project_repository.UpdateProjectFields"

	if tags, ok := updates["tags"].([]string); ok {
		updates["tags"] = pq.Array(tags)
	}
	updates["updated_at"] = time.Now().UTC()

	query, args, err := r.sb.Update("projects").SetMap(updates).Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
	}

	return nil
}

func (r *ProjectRepo) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	const op = "repository.project_repository.DeleteProject"

	query, args, err := r.sb.Delete("projects").Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
	}

	return nil
}

func (r *ProjectRepo) ListProjects(ctx context.Context, ownerID uuid.UUID, statusFilter string, page, perPage int) ([]models.Project, int, error) {
	const op = "repository.project_repository.ListProjects"

	where := sq.Eq{"owner_id": ownerID}

	builder := r.sb.Select(projectColumns...).From("projects").Where(where)
	countBuilder := r.sb.Select("count(*)").From("projects").Where(where)

	if statusFilter != "" {
		builder = builder.Where(sq.Eq{"status": statusFilter})
		countBuilder = countBuilder.Where(sq.Eq{"status": statusFilter})
	}

	query, args, err := builder.
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Slug, &p.Title, &p.Description, &p.Status, pq.Array(&p.Tags), &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		projects = append(projects, p)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return projects, total, nil
}

func (r *ProjectRepo) AddRoom(ctx context.Context, room models.Room) (uuid.UUID, error) {
	const op = "repository.project_repository.AddRoom"

	query, args, err := r.sb.Insert("rooms").
		Columns("project_id", "name", "kind", "area_sqm").
		Values(room.ProjectID, room.Name, room.Kind, room.AreaSqm).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ProjectRepo) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	const op = "repository.project_repository.DeleteRoom"

	query, args, err := r.sb.Delete("rooms").Where(sq.Eq{"id": roomID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ProjectRepo) ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error) {
	const op = "repository.project_repository.ListRooms"

	query, args, err := r.sb.Select("id", "project_id", "name", "kind", "area_sqm").
		From("rooms").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.ProjectID, &room.Name, &room.Kind, &room.AreaSqm); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (r *ProjectRepo) AddProduct(ctx context.Context, product models.Product) (uuid.UUID, error) {
	const op = "repository.project_repository.AddProduct"

	query, args, err := r.sb.Insert("products").
		Columns("room_id", "name", "category", "quantity", "unit_price_cents", "url").
		Values(product.RoomID, product.Name, product.Category, product.Quantity, product.UnitPriceCents, product.URL).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ProjectRepo) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	const op = "repository.project_repository.DeleteProduct"

	query, args, err := r.sb.Delete("products").Where(sq.Eq{"id": productID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ProjectRepo) ListProducts(ctx context.Context, roomID uuid.UUID) ([]models.Product, error) {
	const op = "repository.project_repository.ListProducts"

	query, args, err := r.sb.Select("id", "room_id", "name", "category", "quantity", "unit_price_cents", "url").
		From("products").
		Where(sq.Eq{"room_id": roomID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &p.Category, &p.Quantity, &p.UnitPriceCents, &p.URL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *ProjectRepo) ProjectSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error) {
	const op = "repository.project_repository.ProjectSummary"

	query := `
		SELECT
			(SELECT count(*) FROM rooms WHERE project_id = $1),
			(SELECT count(*) FROM products p JOIN rooms r ON p.room_id = r.id WHERE r.project_id = $1),
			(SELECT coalesce(sum(p.quantity * p.unit_price_cents), 0) FROM products p JOIN rooms r ON p.room_id = r.id WHERE r.project_id = $1),
			(SELECT count(*) FROM inquiries WHERE project_id = $1 AND status = 'pending'),
			(SELECT count(*) FROM inquiries WHERE project_id = $1 AND status = 'quoted')`

	summary := models.ProjectSummary{ProjectID: projectID}

	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&summary.RoomCount,
		&summary.ProductCount,
		&summary.TotalCostCents,
		&summary.PendingInquiries,
		&summary.QuotedInquiries,
	)
	if err != nil {
		return models.ProjectSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

func (r *ProjectRepo) scanProject(ctx context.Context, op, query string, args []interface{}) (models.Project, error) {
	var p models.Project

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Slug,
		&p.Title,
		&p.Description,
		&p.Status,
		pq.Array(&p.Tags),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
		}
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

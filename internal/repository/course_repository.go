package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `
	id, title, type, provider, description, course_url,
	COALESCE(category, ''), COALESCE(subcategory, ''), COALESCE(platform, ''),
	COALESCE(skill_level, ''), COALESCE(price_range, ''), COALESCE(image_url, ''),
	created_at, updated_at
`

// updatableCourseColumns whitelists CourseUpdates keys; true marks nullable columns
var updatableCourseColumns = map[string]bool{
	"title":       false,
	"type":        false,
	"provider":    false,
	"description": false,
	"course_url":  false,
	"category":    true,
	"subcategory": true,
	"platform":    true,
	"skill_level": true,
	"price_range": true,
	"image_url":   true,
}

// CourseRepository reads and writes the courses table
type CourseRepository struct {
	db Querier
}

func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var courseType string
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&courseType,
		&c.Provider,
		&c.Description,
		&c.CourseURL,
		&c.Category,
		&c.Subcategory,
		&c.Platform,
		&c.SkillLevel,
		&c.PriceRange,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Type = models.CourseType(courseType)
	return &c, nil
}

// buildListQuery returns the SELECT for filter and its positional args. Newest first.
func buildListQuery(filter models.CourseFilter) (string, []interface{}) {
	var where []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Platform != "" {
		add("platform = $%d", filter.Platform)
	}
	if filter.SkillLevel != "" {
		add("skill_level = $%d", filter.SkillLevel)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		add("(title ILIKE $%[1]d OR provider ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(q)+"%")
	}

	query := "SELECT " + courseColumns + " FROM courses"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) (courses []*models.Course, err error) {
	start := time.Now()
	defer func() { observe("courses.list", start, err) }()

	query, args := buildListQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("courses.list", "course", err)
	}
	defer rows.Close()

	courses = make([]*models.Course, 0)
	for rows.Next() {
		c, scanErr := scanCourse(rows)
		if scanErr != nil {
			return nil, translate("courses.list", "course", scanErr)
		}
		courses = append(courses, c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, translate("courses.list", "course", rowsErr)
	}

	return courses, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (course *models.Course, err error) {
	start := time.Now()
	defer func() { observe("courses.get", start, err) }()

	query := "SELECT " + courseColumns + " FROM courses WHERE id = $1"
	course, err = scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate("courses.get", "course", err)
	}
	return course, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) (course *models.Course, err error) {
	start := time.Now()
	defer func() { observe("courses.create", start, err) }()

	query := `
		INSERT INTO courses (
			title, type, provider, description, course_url,
			category, subcategory, platform, skill_level, price_range, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + courseColumns

	course, err = scanCourse(r.db.QueryRow(ctx, query,
		c.Title,
		string(c.Type),
		c.Provider,
		c.Description,
		c.CourseURL,
		nullIfEmpty(c.Category),
		nullIfEmpty(c.Subcategory),
		nullIfEmpty(c.Platform),
		nullIfEmpty(c.SkillLevel),
		nullIfEmpty(c.PriceRange),
		nullIfEmpty(c.ImageURL),
	))
	if err != nil {
		return nil, translate("courses.create", "course", err)
	}
	return course, nil
}

// buildUpdateQuery returns the UPDATE statement for updates. Columns are emitted in sorted order.
func buildUpdateQuery(id int64, updates CourseUpdates) (string, []interface{}, error) {
	columns := make([]string, 0, len(updates))
	for col := range updates {
		if _, ok := updatableCourseColumns[col]; !ok {
			return "", nil, fmt.Errorf("column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := make([]interface{}, 0, len(columns)+1)
	for _, col := range columns {
		value := updates[col]
		if s, ok := value.(string); ok && updatableCourseColumns[col] {
			value = nullIfEmpty(s)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), courseColumns)
	return query, args, nil
}

// Update applies updates and returns the stored row. An empty update just re-reads the record.
func (r *CourseRepository) Update(ctx context.Context, id int64, updates CourseUpdates) (course *models.Course, err error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	defer func() { observe("courses.update", start, err) }()

	query, args, err := buildUpdateQuery(id, updates)
	if err != nil {
		return nil, err
	}

	course, err = scanCourse(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate("courses.update", "course", err)
	}
	return course, nil
}

// Delete removes a course and, by cascade, its ratings
func (r *CourseRepository) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe("courses.delete", start, err) }()

	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return translate("courses.delete", "course", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("courses.delete", "course", pgx.ErrNoRows)
	}
	return nil
}

// CountByImageURL reports how many courses reference imageURL
func (r *CourseRepository) CountByImageURL(ctx context.Context, imageURL string) (count int, err error) {
	start := time.Now()
	defer func() { observe("courses.count_by_image", start, err) }()

	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM courses WHERE image_url = $1", imageURL).Scan(&count)
	if err != nil {
		return 0, translate("courses.count_by_image", "course", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const ratingColumns = `id, course_id, user_name, rating, COALESCE(review, ''), created_at`

// RatingRepository reads and writes the course_ratings table
type RatingRepository struct {
	db Querier
}

func NewRatingRepository(db Querier) *RatingRepository {
	return &RatingRepository{db: db}
}

func scanRating(row pgx.Row) (*models.Rating, error) {
	var rt models.Rating
	var score int16
	if err := row.Scan(&rt.ID, &rt.CourseID, &rt.UserName, &score, &rt.Review, &rt.CreatedAt); err != nil {
		return nil, err
	}
	rt.Rating = int(score)
	return &rt, nil
}

// ListByCourse returns a course's ratings, newest first
func (r *RatingRepository) ListByCourse(ctx context.Context, courseID int64) (ratings []*models.Rating, err error) {
	start := time.Now()
	defer func() { observe("ratings.list", start, err) }()

	query := `SELECT ` + ratingColumns + `
		FROM course_ratings
		WHERE course_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, translate("ratings.list", "rating", err)
	}
	defer rows.Close()

	ratings = make([]*models.Rating, 0)
	for rows.Next() {
		rt, scanErr := scanRating(rows)
		if scanErr != nil {
			return nil, translate("ratings.list", "rating", scanErr)
		}
		ratings = append(ratings, rt)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, translate("ratings.list", "rating", rowsErr)
	}
	return ratings, nil
}

// Create inserts a rating. A missing course surfaces as a course not-found error.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) (created *models.Rating, err error) {
	start := time.Now()
	defer func() { observe("ratings.create", start, err) }()

	query := `
		INSERT INTO course_ratings (course_id, user_name, rating, review)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + ratingColumns

	created, err = scanRating(r.db.QueryRow(ctx, query,
		rating.CourseID,
		rating.UserName,
		int16(rating.Rating),
		nullIfEmpty(rating.Review),
	))
	if err != nil {
		return nil, translate("ratings.create", "course", err)
	}
	return created, nil
}

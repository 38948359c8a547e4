package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/mindengage-grades/internal/db"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

type sqlStore struct {
	db *sqlx.DB
}

// NewSQLStore returns a Store backed by a migrated SQLite or Postgres
// database.
func NewSQLStore(dbx *sqlx.DB) Store {
	return &sqlStore{db: dbx}
}

type courseRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type groupRow struct {
	ID          int     `db:"id"`
	Name        string  `db:"name"`
	CourseID    int     `db:"course_id"`
	GroupWeight float64 `db:"group_weight"`
}

type assignmentRow struct {
	GroupID        int             `db:"group_id"`
	ID             int             `db:"id"`
	Name           string          `db:"name"`
	DueAt          string          `db:"due_at"`
	PointsPossible sql.NullFloat64 `db:"points_possible"`
}

type submissionRow struct {
	LearnerID    int     `db:"learner_id"`
	AssignmentID int     `db:"assignment_id"`
	Score        float64 `db:"score"`
	SubmittedAt  string  `db:"submitted_at"`
}

func (s *sqlStore) PutCourse(ctx context.Context, c gradebook.CourseInfo) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return putCourse(ctx, tx, c)
	})
}

func (s *sqlStore) GetCourse(ctx context.Context, id int) (gradebook.CourseInfo, error) {
	var row courseRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name FROM courses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return gradebook.CourseInfo{}, ErrCourseNotFound
	}
	if err != nil {
		return gradebook.CourseInfo{}, err
	}
	return gradebook.CourseInfo{ID: row.ID, Name: row.Name}, nil
}

func (s *sqlStore) ListCourses(ctx context.Context) ([]gradebook.CourseInfo, error) {
	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name FROM courses ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]gradebook.CourseInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, gradebook.CourseInfo{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (s *sqlStore) PutGroup(ctx context.Context, courseID int, g gradebook.AssignmentGroup) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := courseExists(ctx, tx, courseID); err != nil {
			return err
		}
		return putGroup(ctx, tx, courseID, g)
	})
}

func (s *sqlStore) AddSubmissions(ctx context.Context, courseID int, subs []gradebook.LearnerSubmission) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := courseExists(ctx, tx, courseID); err != nil {
			return err
		}
		return addSubmissions(ctx, tx, courseID, subs)
	})
}

func (s *sqlStore) ImportDataset(ctx context.Context, d Dataset) error {
	return db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := putCourse(ctx, tx, d.Course); err != nil {
			return fmt.Errorf("put course: %w", err)
		}
		for _, g := range d.Groups {
			if err := putGroup(ctx, tx, d.Course.ID, g); err != nil {
				return fmt.Errorf("put group %d: %w", g.ID, err)
			}
		}
		if err := addSubmissions(ctx, tx, d.Course.ID, d.Submissions); err != nil {
			return fmt.Errorf("add submissions: %w", err)
		}
		return nil
	})
}

func putCourse(ctx context.Context, tx *sqlx.Tx, c gradebook.CourseInfo) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO courses (id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		c.ID, c.Name, time.Now().Unix())
	return err
}

func putGroup(ctx context.Context, tx *sqlx.Tx, courseID int, g gradebook.AssignmentGroup) error {
	// A replaced group keeps its place in the course.
	var pos int
	err := tx.GetContext(ctx, &pos,
		`SELECT position FROM assignment_groups WHERE dataset_id = $1 AND id = $2`, courseID, g.ID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.GetContext(ctx, &pos,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM assignment_groups WHERE dataset_id = $1`, courseID)
	}
	if err != nil {
		return fmt.Errorf("group position: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO assignment_groups (dataset_id, id, name, course_id, group_weight, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (dataset_id, id) DO UPDATE SET
			name = excluded.name,
			course_id = excluded.course_id,
			group_weight = excluded.group_weight`,
		courseID, g.ID, g.Name, g.CourseID, g.GroupWeight, pos); err != nil {
		return fmt.Errorf("upsert group: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM assignments WHERE dataset_id = $1 AND group_id = $2`, courseID, g.ID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	for i, a := range g.Assignments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assignments (dataset_id, group_id, position, id, name, due_at, points_possible)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			courseID, g.ID, i, a.ID, a.Name, a.DueAt, pointsToNull(a.PointsPossible)); err != nil {
			return fmt.Errorf("insert assignment %d: %w", a.ID, err)
		}
	}
	return nil
}

func addSubmissions(ctx context.Context, tx *sqlx.Tx, courseID int, subs []gradebook.LearnerSubmission) error {
	for _, ls := range subs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO learner_submissions (dataset_id, learner_id, assignment_id, score, submitted_at)
			VALUES ($1, $2, $3, $4, $5)`,
			courseID, ls.LearnerID, ls.AssignmentID, ls.Submission.Score, ls.Submission.SubmittedAt); err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
	}
	return nil
}

func (s *sqlStore) LoadDataset(ctx context.Context, courseID int) (Dataset, error) {
	info, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return Dataset{}, err
	}

	var groups []groupRow
	if err := s.db.SelectContext(ctx, &groups, `
		SELECT id, name, course_id, group_weight FROM assignment_groups
		WHERE dataset_id = $1 ORDER BY position`, courseID); err != nil {
		return Dataset{}, fmt.Errorf("load groups: %w", err)
	}
	var assignments []assignmentRow
	if err := s.db.SelectContext(ctx, &assignments, `
		SELECT group_id, id, name, due_at, points_possible FROM assignments
		WHERE dataset_id = $1 ORDER BY group_id, position`, courseID); err != nil {
		return Dataset{}, fmt.Errorf("load assignments: %w", err)
	}
	var subs []submissionRow
	if err := s.db.SelectContext(ctx, &subs, `
		SELECT learner_id, assignment_id, score, submitted_at FROM learner_submissions
		WHERE dataset_id = $1 ORDER BY seq`, courseID); err != nil {
		return Dataset{}, fmt.Errorf("load submissions: %w", err)
	}

	byGroup := map[int][]gradebook.Assignment{}
	for _, a := range assignments {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], gradebook.Assignment{
			ID:             a.ID,
			Name:           a.Name,
			DueAt:          a.DueAt,
			PointsPossible: nullToPoints(a.PointsPossible),
		})
	}

	d := Dataset{
		Course:      info,
		Groups:      make([]gradebook.AssignmentGroup, 0, len(groups)),
		Submissions: make([]gradebook.LearnerSubmission, 0, len(subs)),
	}
	for _, g := range groups {
		d.Groups = append(d.Groups, gradebook.AssignmentGroup{
			ID:          g.ID,
			Name:        g.Name,
			CourseID:    g.CourseID,
			GroupWeight: g.GroupWeight,
			Assignments: byGroup[g.ID],
		})
	}
	for _, r := range subs {
		d.Submissions = append(d.Submissions, gradebook.LearnerSubmission{
			LearnerID:    r.LearnerID,
			AssignmentID: r.AssignmentID,
			Submission:   gradebook.Submission{Score: r.Score, SubmittedAt: r.SubmittedAt},
		})
	}
	return d, nil
}

func courseExists(ctx context.Context, tx *sqlx.Tx, id int) error {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM courses WHERE id = $1`, id); err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// pointsToNull stores anything that is not a finite number as NULL.
func pointsToNull(p gradebook.Points) sql.NullFloat64 {
	f := p.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullToPoints(n sql.NullFloat64) gradebook.Points {
	if !n.Valid {
		return gradebook.NaNPoints
	}
	return gradebook.Points(n.Float64)
}

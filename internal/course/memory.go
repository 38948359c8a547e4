package course

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

type memoryCourse struct {
	info        gradebook.CourseInfo
	groups      []gradebook.AssignmentGroup
	submissions []gradebook.LearnerSubmission
}

type memoryStore struct {
	mu      sync.RWMutex
	courses map[int]*memoryCourse
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore() Store {
	return &memoryStore{courses: map[int]*memoryCourse{}}
}

func (m *memoryStore) PutCourse(_ context.Context, c gradebook.CourseInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mc, ok := m.courses[c.ID]; ok {
		mc.info = c
		return nil
	}
	m.courses[c.ID] = &memoryCourse{info: c}
	return nil
}

func (m *memoryStore) GetCourse(_ context.Context, id int) (gradebook.CourseInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mc, ok := m.courses[id]
	if !ok {
		return gradebook.CourseInfo{}, ErrCourseNotFound
	}
	return mc.info, nil
}

func (m *memoryStore) ListCourses(_ context.Context) ([]gradebook.CourseInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gradebook.CourseInfo, 0, len(m.courses))
	for _, id := range slices.Sorted(maps.Keys(m.courses)) {
		out = append(out, m.courses[id].info)
	}
	return out, nil
}

func (m *memoryStore) PutGroup(_ context.Context, courseID int, g gradebook.AssignmentGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mc, ok := m.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	mc.putGroup(g)
	return nil
}

func (mc *memoryCourse) putGroup(g gradebook.AssignmentGroup) {
	g.Assignments = slices.Clone(g.Assignments)
	for i := range mc.groups {
		if mc.groups[i].ID == g.ID {
			mc.groups[i] = g
			return
		}
	}
	mc.groups = append(mc.groups, g)
}

func (m *memoryStore) AddSubmissions(_ context.Context, courseID int, subs []gradebook.LearnerSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mc, ok := m.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	mc.submissions = append(mc.submissions, subs...)
	return nil
}

// ImportDataset stages the changes on a copy of the course and swaps it in
// under a single lock.
func (m *memoryStore) ImportDataset(_ context.Context, d Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := &memoryCourse{info: d.Course}
	if mc, ok := m.courses[d.Course.ID]; ok {
		next.groups = slices.Clone(mc.groups)
		next.submissions = slices.Clone(mc.submissions)
	}
	for _, g := range d.Groups {
		next.putGroup(g)
	}
	next.submissions = append(next.submissions, d.Submissions...)
	m.courses[d.Course.ID] = next
	return nil
}

func (m *memoryStore) LoadDataset(_ context.Context, courseID int) (Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mc, ok := m.courses[courseID]
	if !ok {
		return Dataset{}, ErrCourseNotFound
	}
	groups := make([]gradebook.AssignmentGroup, len(mc.groups))
	for i, g := range mc.groups {
		g.Assignments = slices.Clone(g.Assignments)
		groups[i] = g
	}
	return Dataset{
		Course:      mc.info,
		Groups:      groups,
		Submissions: slices.Clone(mc.submissions),
	}, nil
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
)

// Хранилища в памяти для тестов сервисов. Get* возвращают копии, как и репозитории.

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memBlocks struct {
	mu     sync.Mutex
	nextID int64
	blocks map[int64]model.Block
}

func newMemBlocks() *memBlocks {
	return &memBlocks{blocks: map[int64]model.Block{}}
}

func (m *memBlocks) Create(_ context.Context, block *model.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.blocks {
		if block.Overlaps(&other) {
			return model.ErrOverlapConflict
		}
	}

	m.nextID++
	block.ID = m.nextID
	block.CreatedAt = time.Now()
	m.blocks[block.ID] = *block
	return nil
}

func (m *memBlocks) GetByID(_ context.Context, id int64) (*model.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBlocks) filter(keep func(model.Block) bool) []*model.Block {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Block
	for _, b := range m.blocks {
		if keep(b) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (m *memBlocks) GetByServiceAndDate(_ context.Context, serviceID int64, date model.Date) ([]*model.Block, error) {
	return m.filter(func(b model.Block) bool {
		return b.ServiceID == serviceID && b.Date == date
	}), nil
}

func (m *memBlocks) GetByService(_ context.Context, serviceID int64, from, to model.Date) ([]*model.Block, error) {
	return m.filter(func(b model.Block) bool {
		return b.ServiceID == serviceID && !b.Date.Before(from) && !b.Date.After(to)
	}), nil
}

func (m *memBlocks) UpdateIfAvailable(_ context.Context, block *model.Block) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.blocks[block.ID]
	if !ok || !current.IsAvailable {
		return false, nil
	}
	current.Date = block.Date
	current.StartTime = block.StartTime
	current.EndTime = block.EndTime
	m.blocks[block.ID] = current
	return true, nil
}

func (m *memBlocks) DeleteIfAvailable(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.blocks[id]
	if !ok || !current.IsAvailable {
		return false, nil
	}
	delete(m.blocks, id)
	return true, nil
}

func (m *memBlocks) SetAvailability(_ context.Context, id int64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.blocks[id]
	if !ok {
		return model.ErrBlockNotFound
	}
	current.IsAvailable = available
	m.blocks[id] = current
	return nil
}

func (m *memBlocks) CompareAndSetAvailability(_ context.Context, id int64, expected, available bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.blocks[id]
	if !ok || current.IsAvailable != expected {
		return false, nil
	}
	current.IsAvailable = available
	m.blocks[id] = current
	return true, nil
}

type memBookings struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]model.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: map[int64]model.Booking{}}
}

func (m *memBookings) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.bookings {
		if other.BlockID == booking.BlockID {
			return model.ErrBlockNotAvailable
		}
	}

	m.nextID++
	booking.ID = m.nextID
	booking.CreatedAt = time.Now()
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBookings) GetByBlockID(_ context.Context, blockID int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.BlockID == blockID {
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memBookings) GetByUserID(_ context.Context, userID string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (m *memBookings) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return false, nil
	}
	delete(m.bookings, id)
	return true, nil
}

type memServices map[int64]*model.Service

func (m memServices) GetByID(_ context.Context, id int64) (*model.Service, error) {
	return m[id], nil
}

type memActivities struct {
	mu         sync.Mutex
	nextID     int64
	activities map[int64]model.Activity
	attendees  map[int64]int
	updateErr  map[int64]error
}

func newMemActivities() *memActivities {
	return &memActivities{
		activities: map[int64]model.Activity{},
		attendees:  map[int64]int{},
		updateErr:  map[int64]error{},
	}
}

func (m *memActivities) Create(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	activity.ID = m.nextID
	if activity.BaseID == 0 {
		activity.BaseID = activity.ID
	}
	m.activities[activity.ID] = *activity
	return nil
}

// put сохраняет занятие с заданным ID
func (m *memActivities) put(activity model.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[activity.ID] = activity
	if activity.ID > m.nextID {
		m.nextID = activity.ID
	}
}

func (m *memActivities) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.activities[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memActivities) GetByBaseID(_ context.Context, baseID int64) ([]*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Activity
	for _, a := range m.activities {
		if a.BaseID == baseID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memActivities) UpdateDetails(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updateErr[activity.ID]; err != nil {
		return err
	}
	current, ok := m.activities[activity.ID]
	if !ok {
		return model.ErrActivityNotFound
	}
	current.Name = activity.Name
	current.Description = activity.Description
	current.Category = activity.Category
	current.Capacity = activity.Capacity
	m.activities[activity.ID] = current
	return nil
}

func (m *memActivities) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.activities[id]; !ok {
		return model.ErrActivityNotFound
	}
	if m.attendees[id] > 0 {
		return model.ErrActivityHasAttendees
	}
	delete(m.activities, id)
	return nil
}

type memAttendances struct {
	mu          sync.Mutex
	nextID      int64
	attendances []model.Attendance
}

func (m *memAttendances) Create(_ context.Context, attendance *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.attendances {
		if a.ActivityID == attendance.ActivityID && a.UserID == attendance.UserID {
			return model.ErrDuplicateAttendance
		}
	}
	m.nextID++
	attendance.ID = m.nextID
	m.attendances = append(m.attendances, *attendance)
	return nil
}

func (m *memAttendances) Delete(_ context.Context, activityID int64, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.attendances {
		if a.ActivityID == activityID && a.UserID == userID {
			m.attendances = append(m.attendances[:i], m.attendances[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memAttendances) CountByActivity(_ context.Context, activityID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, a := range m.attendances {
		if a.ActivityID == activityID {
			count++
		}
	}
	return count, nil
}

type memSchedules struct {
	nextID    int64
	schedules map[int64]*model.ServiceSchedule
}

func newMemSchedules() *memSchedules {
	return &memSchedules{schedules: map[int64]*model.ServiceSchedule{}}
}

func (m *memSchedules) Create(_ context.Context, schedule *model.ServiceSchedule) error {
	m.nextID++
	schedule.ID = m.nextID
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *memSchedules) GetByID(_ context.Context, id int64) (*model.ServiceSchedule, error) {
	return m.schedules[id], nil
}

func (m *memSchedules) GetAllActive(_ context.Context) ([]*model.ServiceSchedule, error) {
	var out []*model.ServiceSchedule
	for _, s := range m.schedules {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSchedules) SetMaterializedThrough(_ context.Context, id int64, through model.Date) error {
	s, ok := m.schedules[id]
	if !ok {
		return model.ErrScheduleNotFound
	}
	if s.MaterializedThrough == nil || s.MaterializedThrough.Before(through) {
		s.MaterializedThrough = &through
	}
	return nil
}

func (m *memSchedules) Deactivate(_ context.Context, id int64) error {
	s, ok := m.schedules[id]
	if !ok {
		return model.ErrScheduleNotFound
	}
	s.IsActive = false
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]model.EventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

func tod(s string) model.TimeOfDay {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type memCatalog struct {
	memServices
	nextID int64
}

func (m *memCatalog) Create(_ context.Context, svc *model.Service) error {
	m.nextID++
	svc.ID = m.nextID
	svc.CreatedAt = time.Now()
	stored := *svc
	m.memServices[svc.ID] = &stored
	return nil
}

func (m *memCatalog) SetActive(_ context.Context, id int64, active bool) error {
	svc, ok := m.memServices[id]
	if !ok {
		return model.ErrServiceNotFound
	}
	svc.IsActive = active
	return nil
}

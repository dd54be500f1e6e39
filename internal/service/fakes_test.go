package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
)

// In-memory store fakes. Lookups return copies so a mutation only
// becomes visible after Save, mirroring the database-backed stores.

type memUserStore struct {
	seq   int64
	users map[int64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int64]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	s.seq++
	u.ID = s.seq
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) ListByRoles(_ context.Context, roles ...string) ([]model.User, error) {
	var out []model.User
	for id := int64(1); id <= s.seq; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (s *memUserStore) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for id := int64(1); id <= s.seq; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUserStore) add(name, email, role string) *model.User {
	u := &model.User{Name: name, Email: email, Role: role}
	_ = s.Create(context.Background(), u)
	return u
}

type memEventStore struct {
	seq    int64
	events map[int64]model.Event
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: map[int64]model.Event{}}
}

func (s *memEventStore) Create(_ context.Context, e *model.Event) error {
	s.seq++
	e.ID = s.seq
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.events[e.ID] = *e
	return nil
}

func (s *memEventStore) FindByID(_ context.Context, id int64) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok || e.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *memEventStore) Save(_ context.Context, e *model.Event) error {
	if _, ok := s.events[e.ID]; !ok {
		return ErrNotFound
	}
	s.events[e.ID] = *e
	return nil
}

func (s *memEventStore) List(_ context.Context) ([]model.Event, error) {
	var out []model.Event
	for id := int64(1); id <= s.seq; id++ {
		if e, ok := s.events[id]; ok && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memEventStore) SoftDelete(_ context.Context, id int64, at time.Time) error {
	e, ok := s.events[id]
	if !ok {
		return ErrNotFound
	}
	e.DeletedAt = &at
	s.events[id] = e
	return nil
}

func (s *memEventStore) add(title string) *model.Event {
	e := &model.Event{Title: title, Date: time.Now().AddDate(0, 1, 0), Status: model.EventDraft}
	_ = s.Create(context.Background(), e)
	return e
}

type memCateringStore struct {
	seq     int64
	byEvent map[int64]model.CateringApproval
}

func newMemCateringStore() *memCateringStore {
	return &memCateringStore{byEvent: map[int64]model.CateringApproval{}}
}

func (s *memCateringStore) Get(_ context.Context, eventID int64) (*model.CateringApproval, error) {
	c, ok := s.byEvent[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memCateringStore) Create(_ context.Context, c *model.CateringApproval) error {
	s.seq++
	c.ID = s.seq
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.byEvent[c.EventID] = *c
	return nil
}

func (s *memCateringStore) Save(_ context.Context, c *model.CateringApproval) error {
	if _, ok := s.byEvent[c.EventID]; !ok {
		return ErrNotFound
	}
	s.byEvent[c.EventID] = *c
	return nil
}

func (s *memCateringStore) ListStale(_ context.Context, cutoff time.Time) ([]model.CateringApproval, error) {
	var out []model.CateringApproval
	for _, c := range s.byEvent {
		if c.AssigneeID != nil && c.AcceptedAt == nil && c.ReminderSentAt == nil &&
			c.CreatedAt.Before(cutoff) && !c.ApprovalTerminal() {
			out = append(out, c)
		}
	}
	return out, nil
}

type memRoomStore struct {
	seq     int64
	byEvent map[int64]model.RoomReservation
}

func newMemRoomStore() *memRoomStore {
	return &memRoomStore{byEvent: map[int64]model.RoomReservation{}}
}

func (s *memRoomStore) Get(_ context.Context, eventID int64) (*model.RoomReservation, error) {
	r, ok := s.byEvent[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *memRoomStore) Create(_ context.Context, r *model.RoomReservation) error {
	s.seq++
	r.ID = s.seq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.byEvent[r.EventID] = *r
	return nil
}

func (s *memRoomStore) Save(_ context.Context, r *model.RoomReservation) error {
	if _, ok := s.byEvent[r.EventID]; !ok {
		return ErrNotFound
	}
	s.byEvent[r.EventID] = *r
	return nil
}

func (s *memRoomStore) ListStale(_ context.Context, cutoff time.Time) ([]model.RoomReservation, error) {
	var out []model.RoomReservation
	for _, r := range s.byEvent {
		if r.AssigneeID != nil && r.AcceptedAt == nil && r.ReminderSentAt == nil &&
			r.CreatedAt.Before(cutoff) && !r.Terminal() {
			out = append(out, r)
		}
	}
	return out, nil
}

type memFlyerStore struct {
	seq     int64
	byEvent map[int64]model.FlyerTask
}

func newMemFlyerStore() *memFlyerStore {
	return &memFlyerStore{byEvent: map[int64]model.FlyerTask{}}
}

func (s *memFlyerStore) Get(_ context.Context, eventID int64) (*model.FlyerTask, error) {
	f, ok := s.byEvent[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *memFlyerStore) Create(_ context.Context, f *model.FlyerTask) error {
	s.seq++
	f.ID = s.seq
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	s.byEvent[f.EventID] = *f
	return nil
}

func (s *memFlyerStore) Save(_ context.Context, f *model.FlyerTask) error {
	if _, ok := s.byEvent[f.EventID]; !ok {
		return ErrNotFound
	}
	s.byEvent[f.EventID] = *f
	return nil
}

func (s *memFlyerStore) ListStale(_ context.Context, cutoff time.Time) ([]model.FlyerTask, error) {
	var out []model.FlyerTask
	for _, f := range s.byEvent {
		if f.AssigneeID != nil && f.AcceptedAt == nil && f.ReminderSentAt == nil &&
			f.CreatedAt.Before(cutoff) && !f.Terminal() {
			out = append(out, f)
		}
	}
	return out, nil
}

type memTokenStore struct {
	seq  int64
	byID map[int64]model.ActionToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{byID: map[int64]model.ActionToken{}}
}

func (s *memTokenStore) Create(_ context.Context, t *model.ActionToken) error {
	s.seq++
	t.ID = s.seq
	t.CreatedAt = time.Now()
	s.byID[t.ID] = *t
	return nil
}

func (s *memTokenStore) FindByToken(_ context.Context, token string) (*model.ActionToken, error) {
	for _, t := range s.byID {
		if t.Token == token {
			t := t
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memTokenStore) MarkUsed(_ context.Context, id int64, at time.Time) (bool, error) {
	t, ok := s.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if t.UsedAt != nil {
		return false, nil
	}
	t.UsedAt = &at
	s.byID[id] = t
	return true, nil
}

type memEmailLogStore struct {
	seq  int64
	logs []model.EmailLog
}

func newMemEmailLogStore() *memEmailLogStore {
	return &memEmailLogStore{}
}

func (s *memEmailLogStore) Append(_ context.Context, l *model.EmailLog) error {
	s.seq++
	l.ID = s.seq
	s.logs = append(s.logs, *l)
	return nil
}

func (s *memEmailLogStore) FindRecentByDedupeKey(_ context.Context, key string, since time.Time) (*model.EmailLog, error) {
	for i := len(s.logs) - 1; i >= 0; i-- {
		l := s.logs[i]
		if l.DedupeKey != nil && *l.DedupeKey == key && l.SentAt.After(since) {
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

type memYearStore struct {
	seq   int64
	years map[int64]model.AcademicYear
}

func newMemYearStore() *memYearStore {
	return &memYearStore{years: map[int64]model.AcademicYear{}}
}

func (s *memYearStore) Create(_ context.Context, y *model.AcademicYear) error {
	s.seq++
	y.ID = s.seq
	s.years[y.ID] = *y
	return nil
}

func (s *memYearStore) FindByID(_ context.Context, id int64) (*model.AcademicYear, error) {
	y, ok := s.years[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &y, nil
}

func (s *memYearStore) FindCurrent(_ context.Context) (*model.AcademicYear, error) {
	for _, y := range s.years {
		if y.IsCurrent {
			y := y
			return &y, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memYearStore) Save(_ context.Context, y *model.AcademicYear) error {
	if _, ok := s.years[y.ID]; !ok {
		return ErrNotFound
	}
	s.years[y.ID] = *y
	return nil
}

func (s *memYearStore) List(_ context.Context) ([]model.AcademicYear, error) {
	var out []model.AcademicYear
	for id := int64(1); id <= s.seq; id++ {
		if y, ok := s.years[id]; ok {
			out = append(out, y)
		}
	}
	return out, nil
}

func (s *memYearStore) SwitchCurrent(ctx context.Context, id int64) error {
	if _, ok := s.years[id]; !ok {
		return ErrNotFound
	}
	_ = s.ClearCurrent(ctx)
	y := s.years[id]
	y.IsCurrent = true
	s.years[id] = y
	return nil
}

func (s *memYearStore) ClearCurrent(_ context.Context) error {
	for id, y := range s.years {
		y.IsCurrent = false
		s.years[id] = y
	}
	return nil
}

type memChecklistStore struct {
	seeded []int64
}

func (s *memChecklistStore) SeedDefaults(_ context.Context, eventID int64) error {
	s.seeded = append(s.seeded, eventID)
	return nil
}

type recordedEvent struct {
	AggregateType string
	RoutingKey    string
}

type memRecorder struct {
	records []recordedEvent
}

func (r *memRecorder) Record(_ context.Context, aggregateType string, _ *int64, routingKey string, _ any) error {
	r.records = append(r.records, recordedEvent{AggregateType: aggregateType, RoutingKey: routingKey})
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeSender struct {
	sent []sentMail
	fail bool
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	if f.fail {
		return errors.New("transport down")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: html})
	return nil
}

type fakeGuard struct {
	seen map[string]bool
	deny bool
}

func (g *fakeGuard) AcquireOnce(_ context.Context, key string) bool {
	if g.deny {
		return false
	}
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	return true
}

type fakeIssuer struct {
	n int
}

func (f *fakeIssuer) Issue(_ context.Context, eventID, userID int64, decisionType string, _ time.Duration) (string, error) {
	f.n++
	return fmt.Sprintf("tok-%d-%d-%s-%d", eventID, userID, decisionType, f.n), nil
}

func newTestNotifier(logs EmailLogStore, sender MailSender, guard DedupeGuard) *Notifier {
	return NewNotifier(logs, sender, guard, "EventHub", "http://app.local", zap.NewNop())
}

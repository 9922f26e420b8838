package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
)

var errStore = errors.New("store unavailable")

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[int64]*model.User
	nextID   int64
	setErr   error
	clearErr error
	failAll  error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*model.User{}}
	for _, u := range users {
		r.nextID++
		if u.ID == 0 {
			u.ID = r.nextID
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) get(id int64) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return common.NewError(common.ErrConflict, "exists")
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	if u := r.get(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, login) || (u.Username != nil && *u.Username == login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountNonAdmin(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role != model.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) SetResetToken(ctx context.Context, id int64, digest string, expiry time.Time) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.ResetTokenHash = &digest
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *fakeUserRepo) ClearResetToken(ctx context.Context, id int64, digest string) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.ResetTokenHash != nil && *u.ResetTokenHash == digest {
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
	}
	return nil
}

// ResetPassword mirrors the SQL predicate: matching digest and expiry strictly after now.
func (r *fakeUserRepo) ResetPassword(ctx context.Context, digest string, now time.Time, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == digest &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			u.PasswordHash = hash
			u.ResetTokenHash = nil
			u.ResetTokenExpiry = nil
			return u.ID, nil
		}
	}
	return 0, common.ErrNotFound
}

type fakeRoleRepo struct {
	roles []model.Role
	err   error
}

func (r *fakeRoleRepo) EnsureRoles(ctx context.Context, roles []model.Role) error {
	if r.err != nil {
		return r.err
	}
	r.roles = roles
	return nil
}

type fakeTherapistRepo struct {
	therapists map[int64]*model.Therapist
	nextID     int64
	createErr  error
	updateErr  error
	joinedFrom time.Time
}

func newFakeTherapistRepo() *fakeTherapistRepo {
	return &fakeTherapistRepo{therapists: map[int64]*model.Therapist{}}
}

func (r *fakeTherapistRepo) Create(ctx context.Context, t *model.Therapist) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.therapists[t.ID] = &cp
	return nil
}

func (r *fakeTherapistRepo) FindByID(ctx context.Context, id int64) (*model.Therapist, error) {
	t, ok := r.therapists[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTherapistRepo) List(ctx context.Context, filter model.TherapistFilter) ([]model.Therapist, int, error) {
	var out []model.Therapist
	for _, t := range r.therapists {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (r *fakeTherapistRepo) Update(ctx context.Context, t *model.Therapist) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.therapists[t.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *t
	r.therapists[t.ID] = &cp
	return nil
}

func (r *fakeTherapistRepo) UpdateStatus(ctx context.Context, id int64, status model.TherapistStatus) error {
	t, ok := r.therapists[id]
	if !ok {
		return common.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTherapistRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.therapists[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.therapists, id)
	return nil
}

func (r *fakeTherapistRepo) Stats(ctx context.Context, joinedSince time.Time) (model.TherapistStats, error) {
	r.joinedFrom = joinedSince
	return model.TherapistStats{Total: len(r.therapists)}, nil
}

type fakeBookingRepo struct {
	bookings    map[int64]*model.Booking
	from, to    time.Time
	listFilter  model.BookingFilter
	monthCounts [2]int
}

func newFakeBookingRepo(bookings ...*model.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[int64]*model.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error) {
	r.listFilter = filter
	var out []model.Booking
	for _, b := range r.bookings {
		if filter.Status == "" || b.Status == filter.Status {
			out = append(out, *b)
		}
	}
	return out, len(out), nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return common.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) Stats(ctx context.Context) (model.BookingStats, error) {
	return model.BookingStats{All: len(r.bookings)}, nil
}

func (r *fakeBookingRepo) CountBetween(ctx context.Context, from, to time.Time) (int, int, error) {
	r.from, r.to = from, to
	return r.monthCounts[0], r.monthCounts[1], nil
}

type fakeOTPRepo struct {
	filter model.OTPFilter
	logs   []model.OTPLog
}

func (r *fakeOTPRepo) List(ctx context.Context, filter model.OTPFilter) ([]model.OTPLog, int, error) {
	r.filter = filter
	return r.logs, len(r.logs), nil
}

func (r *fakeOTPRepo) Stats(ctx context.Context) (model.OTPStats, error) {
	return model.OTPStats{Total: len(r.logs)}, nil
}

type fakeVideoRepo struct {
	videos    map[int64]*model.LearnerVideo
	nextID    int64
	createErr error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[int64]*model.LearnerVideo{}}
}

func (r *fakeVideoRepo) Create(ctx context.Context, v *model.LearnerVideo) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	v.ID = r.nextID
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) FindByID(ctx context.Context, id int64) (*model.LearnerVideo, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) List(ctx context.Context, page model.Pagination) ([]model.LearnerVideo, int, error) {
	var out []model.LearnerVideo
	for _, v := range r.videos {
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, v *model.LearnerVideo) error {
	if _, ok := r.videos[v.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.videos[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

// fakeStore keeps uploaded bytes keyed by the URL it hands out.
type fakeStore struct {
	files   map[string][]byte
	deleted []string
	saveErr error
	seq     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}}
}

func (s *fakeStore) Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.seq++
	url := "/uploads/" + folder + "/" + strconv.Itoa(s.seq) + "-" + filename
	s.files[url] = data
	return url, nil
}

func (s *fakeStore) Delete(ctx context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	delete(s.files, url)
	return nil
}

type sentMail struct {
	to, name, link string
	expiresIn      time.Duration
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, name, link string, expiresIn time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, link: link, expiresIn: expiresIn})
	return nil
}

func upload(name, contentType, body string) *Upload {
	return &Upload{Filename: name, ContentType: contentType, Size: int64(len(body)), Body: bytes.NewBufferString(body)}
}

func strPtr(s string) *string { return &s }

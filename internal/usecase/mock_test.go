//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/adapter"
	"tree-service-leads/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock JobRepository ----

type MockJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.Job

	CreateFunc   func(ctx context.Context, tx repository.Tx, job *model.Job) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Job, error)
}

var _ repository.JobRepository = (*MockJobRepo)(nil)

func NewMockJobRepo() *MockJobRepo { return &MockJobRepo{jobs: map[string]*model.Job{}} }

func (m *MockJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockJobRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// ---- Mock AppConfigRepository ----

type MockAppConfigRepo struct {
	mu  sync.Mutex
	cfg *model.AppConfig

	GetErr    error
	UpsertErr error
}

var _ repository.AppConfigRepository = (*MockAppConfigRepo)(nil)

func (m *MockAppConfigRepo) Get(ctx context.Context, tx repository.Tx) (*model.AppConfig, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *MockAppConfigRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.AppConfig) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.cfg = &cp
	return nil
}

// ---- Mock OptOutRepository ----

type MockOptOutRepo struct {
	mu   sync.Mutex
	rows []*model.OptOut

	CreateErr error
	ListErr   error
}

var _ repository.OptOutRepository = (*MockOptOutRepo)(nil)

func (m *MockOptOutRepo) Create(ctx context.Context, tx repository.Tx, o *model.OptOut) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MockOptOutRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.OptOutPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.rows {
		if o.ID != id {
			continue
		}
		if p.PhoneNumber != nil {
			o.PhoneNumber = *p.PhoneNumber
		}
		if p.Source != nil {
			o.Source = *p.Source
		}
		return nil
	}
	return domain.ErrNotFound
}

func (m *MockOptOutRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.rows {
		if o.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockOptOutRepo) sorted() []*model.OptOut {
	out := make([]*model.OptOut, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, k int) bool { return out[i].Date.After(out[k].Date) })
	return out
}

func (m *MockOptOutRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.OptOut, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return window(m.sorted(), offset, limit), nil
}

func (m *MockOptOutRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *MockOptOutRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.OptOut, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.OptOut, 0)
	for _, o := range m.sorted() {
		if o.PhoneNumber == key {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOptOutRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.OptOut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

// ---- Mock WarmLeadRepository ----

type MockWarmLeadRepo struct {
	mu   sync.Mutex
	rows []*model.WarmLead

	CreateErr error
}

var _ repository.WarmLeadRepository = (*MockWarmLeadRepo)(nil)

// CreateIfAbsent mirrors the unique index on phone_number.
func (m *MockWarmLeadRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, wl *model.WarmLead) (bool, error) {
	if m.CreateErr != nil {
		return false, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.PhoneNumber == wl.PhoneNumber {
			return false, nil
		}
	}
	cp := *wl
	m.rows = append(m.rows, &cp)
	return true, nil
}

func (m *MockWarmLeadRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.WarmLeadPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID != id {
			continue
		}
		if p.PhoneNumber != nil {
			r.PhoneNumber = *p.PhoneNumber
		}
		if p.FullName.Set {
			r.FullName = p.FullName.Value
		}
		if p.Address.Set {
			r.Address = p.Address.Value
		}
		if p.FirstReplyText.Set {
			r.FirstReplyText = p.FirstReplyText.Value
		}
		if p.SourceCampaign.Set {
			r.SourceCampaign = p.SourceCampaign.Value
		}
		return nil
	}
	return domain.ErrNotFound
}

func (m *MockWarmLeadRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockWarmLeadRepo) sorted() []*model.WarmLead {
	out := make([]*model.WarmLead, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, k int) bool { return out[i].ReplyTime.After(out[k].ReplyTime) })
	return out
}

func (m *MockWarmLeadRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.WarmLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return window(m.sorted(), offset, limit), nil
}

func (m *MockWarmLeadRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *MockWarmLeadRepo) CountSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if !r.ReplyTime.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockWarmLeadRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.WarmLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.WarmLead, 0)
	for _, r := range m.sorted() {
		if r.PhoneNumber == key {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockWarmLeadRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.WarmLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

// ---- Mock FormSubmissionRepository ----

type MockFormSubmissionRepo struct {
	mu   sync.Mutex
	rows []*model.FormSubmission

	CreateErr error
	Patches   []model.FormSubmissionPatch
}

var _ repository.FormSubmissionRepository = (*MockFormSubmissionRepo)(nil)

func (m *MockFormSubmissionRepo) Create(ctx context.Context, tx repository.Tx, fs *model.FormSubmission) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *fs
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MockFormSubmissionRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.FormSubmissionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Patches = append(m.Patches, p)
	for _, r := range m.rows {
		if r.ID == id {
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockFormSubmissionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockFormSubmissionRepo) sorted() []*model.FormSubmission {
	out := make([]*model.FormSubmission, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

func (m *MockFormSubmissionRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.FormSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *MockFormSubmissionRepo) ListWithPhone(ctx context.Context, tx repository.Tx, limit int) ([]*model.FormSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.FormSubmission, 0)
	for _, r := range m.sorted() {
		if r.Phone != nil {
			out = append(out, r)
		}
	}
	return window(out, 0, limit), nil
}

// ---- Mock ContactNoteRepository ----

type MockContactNoteRepo struct {
	mu   sync.Mutex
	rows []*model.ContactNote
}

var _ repository.ContactNoteRepository = (*MockContactNoteRepo)(nil)

func (m *MockContactNoteRepo) Create(ctx context.Context, tx repository.Tx, n *model.ContactNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MockContactNoteRepo) UpdateNote(ctx context.Context, tx repository.Tx, id, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			r.Note = note
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockContactNoteRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockContactNoteRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.ContactNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ContactNote, 0)
	for _, r := range m.rows {
		if r.PhoneNumber == key {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

// ---- Mock ListRepository ----

type MockListRepo struct {
	Metadata []*model.ListMetadata
	Previews map[string]*model.ListPreview
	SmsRows  []*model.SmsCellListRow
}

var _ repository.ListRepository = (*MockListRepo)(nil)

func (m *MockListRepo) ListMetadata(ctx context.Context, tx repository.Tx) ([]*model.ListMetadata, error) {
	return m.Metadata, nil
}

func (m *MockListRepo) GetPreview(ctx context.Context, tx repository.Tx, listID string) (*model.ListPreview, error) {
	p, ok := m.Previews[listID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockListRepo) ListSmsCellRows(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.SmsCellListRow, error) {
	return window(m.SmsRows, offset, limit), nil
}

func (m *MockListRepo) CountSmsCellRows(ctx context.Context, tx repository.Tx) (int, error) {
	return len(m.SmsRows), nil
}

// ---- Mock LeadNotifier ----

type MockNotifier struct {
	mu    sync.Mutex
	Leads []*model.WarmLead
	Err   error
}

var _ adapter.LeadNotifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyWarmLead(ctx context.Context, lead *model.WarmLead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Leads = append(m.Leads, lead)
	return m.Err
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

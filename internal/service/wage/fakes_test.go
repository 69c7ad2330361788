package wage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/worker"
	"github.com/google/uuid"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries map[string]wage.WageEntry
	seq     map[string]int
	next    int
	failErr error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[string]wage.WageEntry{}, seq: map[string]int{}}
}

func (f *fakeEntryRepo) slotTaken(e wage.WageEntry) bool {
	for _, other := range f.entries {
		if other.ID != e.ID && other.OrganizationID == e.OrganizationID && other.WorkerID == e.WorkerID &&
			other.Date.Equal(e.Date) && other.IsAdvance == e.IsAdvance {
			return true
		}
	}
	return false
}

func (f *fakeEntryRepo) CreateBatch(ctx context.Context, entries []wage.WageEntry) ([]wage.WageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, e := range entries {
		if f.slotTaken(e) {
			return nil, wage.ErrDailyEntryConflict
		}
	}
	created := make([]wage.WageEntry, 0, len(entries))
	for _, e := range entries {
		e.ID = uuid.NewString()
		e.CreatedAt = time.Now()
		e.UpdatedAt = e.CreatedAt
		f.entries[e.ID] = e
		f.next++
		f.seq[e.ID] = f.next
		created = append(created, e)
	}
	return created, nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id string, organizationID string) (wage.WageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.OrganizationID != organizationID {
		return wage.WageEntry{}, wage.ErrWageEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) GetByWorkerDate(ctx context.Context, organizationID, workerID string, date time.Time, isAdvance bool) (wage.WageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.OrganizationID == organizationID && e.WorkerID == workerID && e.Date.Equal(wage.Day(date)) && e.IsAdvance == isAdvance {
			return e, nil
		}
	}
	return wage.WageEntry{}, wage.ErrWageEntryNotFound
}

func (f *fakeEntryRepo) Update(ctx context.Context, entry wage.WageEntry) (wage.WageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return wage.WageEntry{}, f.failErr
	}
	current, ok := f.entries[entry.ID]
	if !ok || current.OrganizationID != entry.OrganizationID {
		return wage.WageEntry{}, wage.ErrWageEntryNotFound
	}
	if f.slotTaken(entry) {
		return wage.WageEntry{}, wage.ErrDailyEntryConflict
	}
	entry.CreatedAt = current.CreatedAt
	entry.UpdatedAt = time.Now()
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeEntryRepo) Delete(ctx context.Context, id string, organizationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.OrganizationID != organizationID {
		return wage.ErrWageEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryRepo) ListByMonth(ctx context.Context, organizationID string, filter wage.EntryFilter) ([]wage.WageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	start, end := wage.MonthRange(filter.Month)
	var result []wage.WageEntry
	for _, e := range f.entries {
		if e.OrganizationID != organizationID || e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		if filter.WorkerID != nil && e.WorkerID != *filter.WorkerID {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return f.seq[result[i].ID] < f.seq[result[j].ID]
	})
	return result, nil
}

func (f *fakeEntryRepo) all() []wage.WageEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]wage.WageEntry, 0, len(f.entries))
	for _, e := range f.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return f.seq[result[i].ID] < f.seq[result[j].ID] })
	return result
}

type monthKey struct {
	org, worker string
	month       time.Time
}

type fakeBonusRepo struct {
	mu      sync.Mutex
	bonuses map[monthKey]wage.BonusEntry
	order   []monthKey
}

func newFakeBonusRepo() *fakeBonusRepo {
	return &fakeBonusRepo{bonuses: map[monthKey]wage.BonusEntry{}}
}

func (f *fakeBonusRepo) Get(ctx context.Context, organizationID, workerID string, month time.Time) (wage.BonusEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bonuses[monthKey{organizationID, workerID, wage.Month(month)}]
	if !ok {
		return wage.BonusEntry{}, wage.ErrBonusNotFound
	}
	return b, nil
}

func (f *fakeBonusRepo) Upsert(ctx context.Context, bonus wage.BonusEntry) (wage.BonusEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := monthKey{bonus.OrganizationID, bonus.WorkerID, wage.Month(bonus.Month)}
	if existing, ok := f.bonuses[key]; ok {
		bonus.ID = existing.ID
	} else {
		bonus.ID = uuid.NewString()
		f.order = append(f.order, key)
	}
	bonus.Month = key.month
	f.bonuses[key] = bonus
	return bonus, nil
}

func (f *fakeBonusRepo) Delete(ctx context.Context, organizationID, workerID string, month time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bonuses, monthKey{organizationID, workerID, wage.Month(month)})
	return nil
}

func (f *fakeBonusRepo) ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]wage.BonusEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []wage.BonusEntry
	seen := map[monthKey]bool{}
	for _, key := range f.order {
		b, ok := f.bonuses[key]
		if ok && !seen[key] && key.org == organizationID && key.month.Equal(wage.Month(month)) {
			seen[key] = true
			result = append(result, b)
		}
	}
	return result, nil
}

type fakePaymentRepo struct {
	mu    sync.Mutex
	marks map[monthKey]wage.PaymentMark
	order []monthKey
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{marks: map[monthKey]wage.PaymentMark{}}
}

func (f *fakePaymentRepo) Get(ctx context.Context, organizationID, workerID string, month time.Time) (wage.PaymentMark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.marks[monthKey{organizationID, workerID, wage.Month(month)}]
	if !ok {
		return wage.PaymentMark{}, wage.ErrPaymentNotFound
	}
	return m, nil
}

func (f *fakePaymentRepo) Create(ctx context.Context, mark wage.PaymentMark) (wage.PaymentMark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := monthKey{mark.OrganizationID, mark.WorkerID, wage.Month(mark.Month)}
	mark.ID = uuid.NewString()
	f.marks[key] = mark
	f.order = append(f.order, key)
	return mark, nil
}

func (f *fakePaymentRepo) Delete(ctx context.Context, organizationID, workerID string, month time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.marks, monthKey{organizationID, workerID, wage.Month(month)})
	return nil
}

func (f *fakePaymentRepo) ListByMonth(ctx context.Context, organizationID string, month time.Time) ([]wage.PaymentMark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []wage.PaymentMark
	seen := map[monthKey]bool{}
	for _, key := range f.order {
		m, ok := f.marks[key]
		if ok && !seen[key] && key.org == organizationID && key.month.Equal(wage.Month(month)) {
			seen[key] = true
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeWorkerRepo struct {
	mu      sync.Mutex
	workers map[string]worker.Worker
	lookups int
}

func newFakeWorkerRepo(workers ...worker.Worker) *fakeWorkerRepo {
	f := &fakeWorkerRepo{workers: map[string]worker.Worker{}}
	for _, w := range workers {
		f.workers[w.ID] = w
	}
	return f
}

func (f *fakeWorkerRepo) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = uuid.NewString()
	f.workers[w.ID] = w
	return w, nil
}

func (f *fakeWorkerRepo) GetByID(ctx context.Context, id string, organizationID string) (worker.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	w, ok := f.workers[id]
	if !ok || w.OrganizationID != organizationID {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return w, nil
}

func (f *fakeWorkerRepo) List(ctx context.Context, organizationID string, filter worker.WorkerFilter) ([]worker.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []worker.Worker
	for _, w := range f.workers {
		if w.OrganizationID == organizationID && (!filter.ActiveOnly || w.IsActive) {
			result = append(result, w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (f *fakeWorkerRepo) SetActive(ctx context.Context, id string, organizationID string, active bool) (worker.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	w, ok := f.workers[id]
	if !ok || w.OrganizationID != organizationID {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	w.IsActive = active
	f.workers[id] = w
	return w, nil
}

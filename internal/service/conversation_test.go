package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/avo-labs/conversation-logger/internal/model"
	"github.com/avo-labs/conversation-logger/internal/store"
	"github.com/avo-labs/conversation-logger/pkg/logger"
)

// fakeStore is an in-memory store.Store used to exercise the service layer
// without a database.
type fakeStore struct {
	records    map[int64]model.Record
	nextID     int64
	lastFilter store.ListFilter
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]model.Record)}
}

func (f *fakeStore) Insert(_ context.Context, rec model.Record) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	rec.ID = f.nextID
	f.records[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeStore) List(_ context.Context, filter store.ListFilter) ([]model.Record, int, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	f.lastFilter = filter

	matched := make([]model.Record, 0, len(f.records))
	for _, rec := range f.records {
		if filter.Subject != nil && !subjectMatches(rec, *filter.Subject) {
			continue
		}
		if filter.UserName != nil && !strings.Contains(strings.ToLower(rec.UserName), strings.ToLower(*filter.UserName)) {
			continue
		}
		if filter.Day != nil {
			y1, m1, d1 := rec.Date.UTC().Date()
			y2, m2, d2 := filter.Day.UTC().Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeStore) Get(_ context.Context, id int64, subject *string) (model.Record, error) {
	if f.failWith != nil {
		return model.Record{}, f.failWith
	}
	rec, ok := f.records[id]
	if !ok {
		return model.Record{}, store.ErrNotFound
	}
	if subject != nil && !subjectMatches(rec, *subject) {
		return model.Record{}, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.failWith }
func (f *fakeStore) Close()                     {}

func subjectMatches(rec model.Record, subject string) bool {
	return rec.Subject != nil && strings.EqualFold(*rec.Subject, subject)
}

func newTestService(st store.Store) *ConversationService {
	log, _ := logger.New("error")
	return NewConversationService(st, log)
}

func TestSaveTrimsUserNameAndDefaultsTimestamp(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	before := time.Now().UTC()
	resp, err := svc.Save(context.Background(), &model.CreateRequest{
		UserName:     "  Anne  ",
		Conversation: "hello , world",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if resp.ID != 1 || resp.Status != "ok" {
		t.Fatalf("Save() = %+v, want id 1 status ok", resp)
	}

	rec := fs.records[1]
	if rec.UserName != "Anne" {
		t.Fatalf("stored user_name = %q, want trimmed %q", rec.UserName, "Anne")
	}
	if rec.Date.Before(before) || rec.Date.After(time.Now().UTC()) {
		t.Fatalf("default timestamp %v not in [%v, now]", rec.Date, before)
	}
	if rec.Date.Location() != time.UTC {
		t.Fatalf("default timestamp location = %v, want UTC", rec.Date.Location())
	}
}

func TestSaveKeepsClientTimestampNormalizedToUTC(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	loc := time.FixedZone("UTC+2", 2*3600)
	given := time.Date(2024, 3, 1, 10, 0, 0, 0, loc)
	_, err := svc.Save(context.Background(), &model.CreateRequest{
		UserName:     "bob",
		Conversation: "hi",
		Date:         &given,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rec := fs.records[1]
	if !rec.Date.Equal(given) {
		t.Fatalf("stored timestamp = %v, want same instant as %v", rec.Date, given)
	}
	if rec.Date.Location() != time.UTC {
		t.Fatalf("stored timestamp location = %v, want UTC", rec.Date.Location())
	}
}

func TestSaveIDsStrictlyIncrease(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	var last int64
	for i := 0; i < 5; i++ {
		resp, err := svc.Save(context.Background(), &model.CreateRequest{
			UserName:     "anne",
			Conversation: "turn",
		})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if resp.ID <= last {
			t.Fatalf("id %d not strictly greater than previous %d", resp.ID, last)
		}
		last = resp.ID
	}
}

func TestRoundTrip(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	subject := "billing"
	given := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	resp, err := svc.Save(context.Background(), &model.CreateRequest{
		UserName:     "anne",
		Conversation: "q , a",
		Subject:      &subject,
		Date:         &given,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	detail, err := svc.Get(context.Background(), resp.ID, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.UserName != "anne" || detail.Conversation != "q , a" {
		t.Fatalf("round-trip mismatch: %+v", detail)
	}
	if detail.Subject == nil || *detail.Subject != "billing" {
		t.Fatalf("round-trip subject = %v, want billing", detail.Subject)
	}
	if !detail.Date.Equal(given) {
		t.Fatalf("round-trip timestamp = %v, want %v", detail.Date, given)
	}
}

func TestGetNotFoundIsDistinct(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Get(context.Background(), 42, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want store.ErrNotFound", err)
	}
}

func TestGetSubjectMismatchIsNotFound(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	subject := "billing"
	resp, _ := svc.Save(context.Background(), &model.CreateRequest{
		UserName:     "anne",
		Conversation: "hi",
		Subject:      &subject,
	})

	other := "support"
	if _, err := svc.Get(context.Background(), resp.ID, &other); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get(wrong subject) error = %v, want store.ErrNotFound", err)
	}

	upper := "BILLING"
	if _, err := svc.Get(context.Background(), resp.ID, &upper); err != nil {
		t.Fatalf("Get(case-insensitive subject) error = %v", err)
	}
}

func TestListBuildsPreviews(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	long := strings.Repeat("z", model.PreviewLength+50)
	if _, err := svc.Save(context.Background(), &model.CreateRequest{
		UserName:     "anne",
		Conversation: long,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	resp, err := svc.List(context.Background(), store.ListFilter{Limit: 50})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("List() = %d items total %d, want 1/1", len(resp.Items), resp.Total)
	}
	want := strings.Repeat("z", model.PreviewLength) + "…"
	if resp.Items[0].Preview != want {
		t.Fatalf("preview = %q, want truncated with marker", resp.Items[0].Preview)
	}
}

func TestListTotalIgnoresPaging(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	for i := 0; i < 7; i++ {
		if _, err := svc.Save(context.Background(), &model.CreateRequest{
			UserName:     "anne",
			Conversation: "turn",
		}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	resp, err := svc.List(context.Background(), store.ListFilter{Limit: 3, Offset: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("page size = %d, want 3", len(resp.Items))
	}
	if resp.Total != 7 {
		t.Fatalf("total = %d, want 7 regardless of paging", resp.Total)
	}
}

func TestListOrderingNewestFirstWithIDTieBreak(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{t1, t2, t2} {
		ts := ts
		if _, err := svc.Save(context.Background(), &model.CreateRequest{
			UserName:     "anne",
			Conversation: "turn",
			Date:         &ts,
		}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	resp, err := svc.List(context.Background(), store.ListFilter{Limit: 50})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	gotIDs := []int64{resp.Items[0].ID, resp.Items[1].ID, resp.Items[2].ID}
	if gotIDs[0] != 3 || gotIDs[1] != 2 || gotIDs[2] != 1 {
		t.Fatalf("order = %v, want [3 2 1] (timestamp desc, id desc tie-break)", gotIDs)
	}
}

func TestBackendFailureIsWrappedNotNotFound(t *testing.T) {
	fs := newFakeStore()
	fs.failWith = errors.New("connection refused")
	svc := newTestService(fs)

	if _, err := svc.Save(context.Background(), &model.CreateRequest{UserName: "a", Conversation: "b"}); err == nil {
		t.Fatal("Save() with failing store returned nil error")
	}
	_, err := svc.Get(context.Background(), 1, nil)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() backend failure = %v, want generic error distinct from not-found", err)
	}
}

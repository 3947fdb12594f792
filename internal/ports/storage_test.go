package ports

import (
	"context"
	"iter"
	"sort"
	"testing"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// Mock implementations for testing interfaces.

type mockSessionRepository struct {
	sessions []*domain.Session
}

func (m *mockSessionRepository) Record(ctx context.Context, session *domain.Session) error {
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionRepository) Query(ctx context.Context, from, to time.Time) iter.Seq2[*domain.Session, error] {
	return func(yield func(*domain.Session, error) bool) {
		p := domain.Period{Start: from, End: to}
		sorted := append([]*domain.Session(nil), m.sessions...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })
		for _, s := range sorted {
			if p.Contains(s.StartTime) && !yield(s, nil) {
				return
			}
		}
	}
}

func (m *mockSessionRepository) All(ctx context.Context) iter.Seq2[*domain.Session, error] {
	return m.Query(ctx, time.Time{}, time.Time{})
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepository) SearchTaskNames(ctx context.Context, query string) ([]string, error) {
	return nil, nil
}

var _ SessionRepository = (*mockSessionRepository)(nil)

func TestMockSessionRepository_QueryIsRestartable(t *testing.T) {
	repo := &mockSessionRepository{}
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s, err := domain.NewSession("t", base.Add(time.Duration(2-i)*time.Hour), time.Minute, time.Minute, true)
		if err != nil {
			t.Fatalf("NewSession() error = %v", err)
		}
		if err := repo.Record(ctx, s); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	seq := repo.Query(ctx, base, base.Add(2*time.Hour))
	for pass := 0; pass < 2; pass++ {
		var got []time.Time
		for s, err := range seq {
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			got = append(got, s.StartTime)
		}
		if len(got) != 2 {
			t.Fatalf("pass %d: got %d sessions, want 2", pass, len(got))
		}
		if !got[0].Before(got[1]) {
			t.Errorf("pass %d: sessions not ascending: %v", pass, got)
		}
	}
}

func TestSessionListenerFunc(t *testing.T) {
	var got string
	var l SessionListener = SessionListenerFunc(func(ctx context.Context, s domain.Session) {
		got = s.TaskName
	})
	l.OnSessionRecorded(context.Background(), domain.Session{TaskName: "coding"})
	if got != "coding" {
		t.Errorf("listener saw %q, want coding", got)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
	"github.com/example/agenda/internal/ports/secondary"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// Ensure mocks implement the interfaces
var (
	_ secondary.ProposalRepository        = (*mockProposalRepository)(nil)
	_ secondary.UserRepository            = (*mockUserRepository)(nil)
	_ secondary.DocumentRepository        = (*mockDocumentRepository)(nil)
	_ secondary.ReviewRecordRepository    = (*mockReviewRepository)(nil)
	_ secondary.ExpiredDecisionRepository = (*mockDecisionRepository)(nil)
	_ secondary.Notifier                  = (*mockNotifier)(nil)
	_ secondary.Transactor                = (*mockTransactor)(nil)
)

// mockProposalRepository implements secondary.ProposalRepository for testing.
type mockProposalRepository struct {
	mu        sync.Mutex
	proposals map[string]*secondary.ProposalRecord
	nextID    int
	// levelBefore overrides the stored level seen by UpdateLevel, simulating
	// a concurrent writer.
	levelBefore map[string]string
}

func newMockProposalRepository() *mockProposalRepository {
	return &mockProposalRepository{
		proposals:   make(map[string]*secondary.ProposalRecord),
		levelBefore: make(map[string]string),
		nextID:      1,
	}
}

func (m *mockProposalRepository) put(p *secondary.ProposalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.ID] = p
}

func (m *mockProposalRepository) get(id string) *secondary.ProposalRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.proposals[id]
	return &cp
}

func (m *mockProposalRepository) Create(ctx context.Context, p *secondary.ProposalRecord) error {
	m.put(p)
	return nil
}

func (m *mockProposalRepository) GetByID(ctx context.Context, id string) (*secondary.ProposalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperr.NotFound("proposal", id)
}

func (m *mockProposalRepository) List(ctx context.Context, filters secondary.ProposalFilters) ([]*secondary.ProposalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.ProposalRecord
	for _, p := range m.proposals {
		if filters.Level != "" && p.Level != filters.Level {
			continue
		}
		if filters.Department != "" && p.Department != filters.Department {
			continue
		}
		if filters.MinScore > 0 && p.Score < filters.MinScore {
			continue
		}
		if filters.OpenOnly && level.IsTerminalStatus(p.Status) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProposalRepository) ApplyScoreDelta(ctx context.Context, id string, delta int) (*secondary.ScoreChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, apperr.NotFound("proposal", id)
	}
	old := p.Score
	p.Score = max(0, p.Score+delta)
	p.VoteCount++
	cp := *p
	return &secondary.ScoreChange{OldScore: old, NewScore: p.Score, Proposal: &cp}, nil
}

func (m *mockProposalRepository) UpdateLevel(ctx context.Context, id string, u secondary.LevelUpdate, expectedLevel string) (*secondary.ProposalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, apperr.NotFound("proposal", id)
	}
	stored := p.Level
	if override, ok := m.levelBefore[id]; ok {
		stored = override
	}
	if stored != expectedLevel || level.IsTerminalStatus(p.Status) {
		return nil, apperr.New(apperr.CodeConflict, "proposal %s changed concurrently", id)
	}
	p.Level = u.Level
	p.Status = u.Status
	if u.Visibility != "" {
		p.Visibility = u.Visibility
	}
	if u.ClearDeadline {
		p.VotingDeadline = nil
	} else if u.VotingDeadline != nil {
		p.VotingDeadline = u.VotingDeadline
	}
	if u.DecisionBy != "" {
		p.DecisionBy = u.DecisionBy
		p.DecisionAt = u.DecisionAt
		p.DecisionReason = u.DecisionReason
	}
	cp := *p
	return &cp, nil
}

func (m *mockProposalRepository) FindOverdueEscalated(ctx context.Context, now time.Time, levels []string) ([]*secondary.ProposalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.ProposalRecord
	for _, p := range m.proposals {
		if p.VotingDeadline == nil || !p.VotingDeadline.Before(now) || level.IsTerminalStatus(p.Status) {
			continue
		}
		for _, l := range levels {
			if p.Level == l {
				cp := *p
				result = append(result, &cp)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProposalRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("PROP-%03d", id), nil
}

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*secondary.UserRecord
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*secondary.UserRecord)}
}

func (m *mockUserRepository) add(id, dept, facility string, p permission.Level) {
	m.users[id] = &secondary.UserRecord{ID: id, Name: id, Department: dept, FacilityID: facility, Permission: p}
}

func (m *mockUserRepository) Create(ctx context.Context, u *secondary.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return errors.New("duplicate user")
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

func (m *mockUserRepository) GetPermissionLevel(ctx context.Context, id string) (permission.Level, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return permission.None, err
	}
	return u.Permission, nil
}

func (m *mockUserRepository) ListByScope(ctx context.Context, scope secondary.UserScope) ([]*secondary.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.UserRecord
	for _, u := range m.users {
		if scope.Department != "" && u.Department != scope.Department {
			continue
		}
		if scope.FacilityID != "" && u.FacilityID != scope.FacilityID {
			continue
		}
		if u.Permission < scope.MinPermission {
			continue
		}
		if scope.MaxPermission > 0 && u.Permission >= scope.MaxPermission {
			continue
		}
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// mockDocumentRepository implements secondary.DocumentRepository for testing.
type mockDocumentRepository struct {
	mu   sync.Mutex
	docs map[string]*secondary.DocumentRecord
}

func newMockDocumentRepository() *mockDocumentRepository {
	return &mockDocumentRepository{docs: make(map[string]*secondary.DocumentRecord)}
}

func (m *mockDocumentRepository) CreateIfAbsent(ctx context.Context, doc *secondary.DocumentRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ProposalID]; ok {
		return false, nil
	}
	m.docs[doc.ProposalID] = doc
	return true, nil
}

func (m *mockDocumentRepository) GetByProposal(ctx context.Context, proposalID string) (*secondary.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[proposalID]; ok {
		return d, nil
	}
	return nil, apperr.NotFound("document", proposalID)
}

func (m *mockDocumentRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// mockReviewRepository implements secondary.ReviewRecordRepository for testing.
type mockReviewRepository struct {
	records []*secondary.ReviewRecord
}

func (m *mockReviewRepository) Append(ctx context.Context, r *secondary.ReviewRecord) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockReviewRepository) ListByProposal(ctx context.Context, proposalID string) ([]*secondary.ReviewRecord, error) {
	var result []*secondary.ReviewRecord
	for _, r := range m.records {
		if r.ProposalID == proposalID {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockDecisionRepository implements secondary.ExpiredDecisionRepository for testing.
type mockDecisionRepository struct {
	records []*secondary.ExpiredDecisionRecord
}

func (m *mockDecisionRepository) Append(ctx context.Context, r *secondary.ExpiredDecisionRecord) error {
	for _, existing := range m.records {
		if existing.ProposalID == r.ProposalID && existing.VotingDeadline.Equal(r.VotingDeadline) {
			return apperr.New(apperr.CodeAlreadyDecided, "proposal %s already decided", r.ProposalID)
		}
	}
	m.records = append(m.records, r)
	return nil
}

func (m *mockDecisionRepository) ListByProposal(ctx context.Context, proposalID string) ([]*secondary.ExpiredDecisionRecord, error) {
	var result []*secondary.ExpiredDecisionRecord
	for _, r := range m.records {
		if r.ProposalID == proposalID {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockTransactor runs fn directly and counts rollbacks.
type mockTransactor struct {
	calls     int
	rollbacks int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	return nil
}

type notifyCall struct {
	recipients []string
	msg        secondary.NotificationMessage
}

// mockNotifier records deliveries. failTemplates makes Notify fail for the
// named templates.
type mockNotifier struct {
	mu            sync.Mutex
	calls         []notifyCall
	failTemplates map[string]bool
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{failTemplates: make(map[string]bool)}
}

func (m *mockNotifier) Notify(ctx context.Context, recipients []string, msg secondary.NotificationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTemplates[msg.Template] {
		return errors.New("smtp unavailable")
	}
	m.calls = append(m.calls, notifyCall{recipients: recipients, msg: msg})
	return nil
}

func (m *mockNotifier) templates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.msg.Template
	}
	sort.Strings(out)
	return out
}

func (m *mockNotifier) recipientsFor(template string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c.msg.Template == template {
			return c.recipients
		}
	}
	return nil
}

// testEnv wires the services against mocks.
type testEnv struct {
	proposals  *mockProposalRepository
	users      *mockUserRepository
	documents  *mockDocumentRepository
	reviews    *mockReviewRepository
	decisions  *mockDecisionRepository
	notifier   *mockNotifier
	tx         *mockTransactor
	dispatcher *Dispatcher
	executor   *DefaultEffectExecutor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		proposals: newMockProposalRepository(),
		users:     newMockUserRepository(),
		documents: newMockDocumentRepository(),
		reviews:   &mockReviewRepository{},
		decisions: &mockDecisionRepository{},
		notifier:  newMockNotifier(),
		tx:        &mockTransactor{},
	}
	env.dispatcher = NewDispatcher(env.proposals, env.users, env.notifier, zap.NewNop())
	env.executor = NewEffectExecutor(env.documents, env.dispatcher, zap.NewNop())
	env.executor.now = fixedClock
	t.Cleanup(env.dispatcher.Close)

	// A small organisation: one department in facility F1.
	env.users.add("author", "ward-3", "F1", permission.Of(2))
	env.users.add("supervisor", "ward-3", "F1", permission.Of(5))
	env.users.add("lead", "ward-3", "F1", permission.FromDoubled(13)) // 6.5
	env.users.add("manager", "ward-3", "F1", permission.Of(7))
	env.users.add("senior-manager", "ward-3", "F1", permission.FromDoubled(15)) // 7.5
	env.users.add("director", "admin", "F1", permission.Of(8))
	env.users.add("corp-reviewer", "hq", "HQ", permission.Of(10))
	env.users.add("executive", "hq", "HQ", permission.Of(11))
	return env
}

func (e *testEnv) proposal(id string, score int, l level.Level, status string) *secondary.ProposalRecord {
	p := &secondary.ProposalRecord{
		ID:         id,
		AuthorID:   "author",
		Title:      "Night shift handover checklist",
		Department: "ward-3",
		FacilityID: "F1",
		Score:      score,
		VoteCount:  score / 5,
		Level:      string(l),
		Status:     status,
		Visibility: "department",
		CreatedAt:  testNow.Add(-30 * 24 * time.Hour),
	}
	e.proposals.put(p)
	return p
}

func assertCode(t *testing.T, err error, want apperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperr.CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func documentFixture(proposalID string) *secondary.DocumentRecord {
	return &secondary.DocumentRecord{
		ID:         "DOC-" + proposalID,
		ProposalID: proposalID,
		OwnerID:    "author",
		Status:     secondary.DocumentStatusDraft,
		CreatedAt:  testNow,
	}
}

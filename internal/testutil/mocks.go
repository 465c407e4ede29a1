package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/domain/notification"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
)

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mu          sync.Mutex
	Alerts      map[int64]*alert.Alert
	NextID      int64
	CreateError error
	CloseError  error
	GetError    error
	UpdateError error
	ListError   error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[int64]*alert.Alert),
		NextID: 1,
	}
}

func (m *MockAlertRepository) CreateBatch(ctx context.Context, alerts []*alert.Alert) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range alerts {
		a.ID = m.NextID
		m.NextID++
		if a.Status == "" {
			a.Status = alert.StatusOpen
		}
		cp := *a
		m.Alerts[a.ID] = &cp
	}
	return nil
}

func (m *MockAlertRepository) CloseByIDs(ctx context.Context, ids []int64) error {
	if m.CloseError != nil {
		return m.CloseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if a, ok := m.Alerts[id]; ok {
			a.Status = alert.StatusClosed
			a.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok {
		return nil, fmt.Errorf("alert not found")
	}
	cp := *a
	return &cp, nil
}

func (m *MockAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Alerts[a.ID]; !ok {
		return fmt.Errorf("alert not found")
	}
	cp := *a
	m.Alerts[a.ID] = &cp
	return nil
}

func (m *MockAlertRepository) ListOpenByWorkspace(ctx context.Context, workspaceID string) ([]*alert.Alert, error) {
	return m.List(ctx, workspaceID, alert.Filter{Status: alert.StatusOpen})
}

func (m *MockAlertRepository) List(ctx context.Context, workspaceID string, filter alert.Filter) ([]*alert.Alert, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*alert.Alert
	for _, a := range m.Alerts {
		if a.WorkspaceID != workspaceID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	return result, nil
}

// OpenCount returns the number of open alerts for a workspace, SKU and type
func (m *MockAlertRepository) OpenCount(workspaceID, sku, alertType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.Alerts {
		if a.WorkspaceID == workspaceID && a.SKU == sku && a.Type == alertType && a.Status == alert.StatusOpen {
			count++
		}
	}
	return count
}

// MockProductRepository is a mock implementation of product.Repository
type MockProductRepository struct {
	Products        map[string][]*product.Product
	ListError       error
	WorkspacesError error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		Products: make(map[string][]*product.Product),
	}
}

func (m *MockProductRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*product.Product, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Products[workspaceID], nil
}

func (m *MockProductRepository) Workspaces(ctx context.Context) ([]string, error) {
	if m.WorkspacesError != nil {
		return nil, m.WorkspacesError
	}
	var ids []string
	for id := range m.Products {
		ids = append(ids, id)
	}
	return ids, nil
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mu          sync.Mutex
	Records     []*audit.Record
	InsertError error
	RecentError error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Insert(ctx context.Context, record *audit.Record) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.Records = append(m.Records, &cp)
	return nil
}

func (m *MockAuditRepository) RecentByAction(ctx context.Context, action string, limit int) ([]*audit.Record, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*audit.Record
	for i := len(m.Records) - 1; i >= 0 && len(result) < limit; i-- {
		if m.Records[i].Action == action {
			result = append(result, m.Records[i])
		}
	}
	return result, nil
}

// ByAction returns all recorded entries for an action, oldest first
func (m *MockAuditRepository) ByAction(action string) []*audit.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*audit.Record
	for _, r := range m.Records {
		if r.Action == action {
			result = append(result, r)
		}
	}
	return result
}

// RecordedAuditor is an audit.Writer that captures entries in memory
type RecordedAuditor struct {
	mu      sync.Mutex
	Entries []*audit.Record
}

func NewRecordedAuditor() *RecordedAuditor {
	return &RecordedAuditor{}
}

func (r *RecordedAuditor) Log(ctx context.Context, actor, action, targetType, targetID string, payload map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	r.Entries = append(r.Entries, &audit.Record{
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Payload:    raw,
		CreatedAt:  time.Now().UTC(),
	})
}

// ByAction returns captured entries for an action, oldest first
func (r *RecordedAuditor) ByAction(action string) []*audit.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*audit.Record
	for _, e := range r.Entries {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

// NotifiedEvent is one captured dispatcher invocation
type NotifiedEvent struct {
	Event  notification.Event
	Alerts []*alert.Alert
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mu          sync.Mutex
	Events      []NotifiedEvent
	NotifyError error
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Notify(ctx context.Context, event notification.Event, alerts []*alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, NotifiedEvent{Event: event, Alerts: alerts})
	return m.NotifyError
}

// CountByEvent returns how many times an event was dispatched
func (m *MockDispatcher) CountByEvent(event notification.Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.Events {
		if e.Event == event {
			count++
		}
	}
	return count
}

// MockEngine is a mock implementation of alert.Engine with per-workspace
// failure injection. FailuresLeft counts down so retries can eventually
// succeed.
type MockEngine struct {
	mu           sync.Mutex
	Sweeps       map[string]int
	FailuresLeft map[string]int
	Result       func(workspaceID string) *alert.SweepResult
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		Sweeps:       make(map[string]int),
		FailuresLeft: make(map[string]int),
	}
}

func (m *MockEngine) Sweep(ctx context.Context, workspaceID string) (*alert.SweepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sweeps[workspaceID]++
	if left, ok := m.FailuresLeft[workspaceID]; ok && left != 0 {
		if left > 0 {
			m.FailuresLeft[workspaceID]--
		}
		return nil, fmt.Errorf("sweep failed for %s", workspaceID)
	}
	if m.Result != nil {
		return m.Result(workspaceID), nil
	}
	return &alert.SweepResult{WorkspaceID: workspaceID}, nil
}

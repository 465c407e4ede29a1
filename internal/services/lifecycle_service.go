package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/domain/notification"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/metrics"
)

// LifecycleService implements alert.Engine. A sweep classifies every product
// snapshot in a workspace and reconciles the set of open alerts: out-of-stock
// supersedes low-stock, recovered stock closes both, and an already-open alert
// of the same type is never duplicated.
type LifecycleService struct {
	alerts     alert.Repository
	products   product.Repository
	auditor    audit.Writer
	dispatcher notification.Dispatcher
	threshold  int64
	logger     *logger.Logger

	// Serializes concurrent sweeps of the same workspace so the
	// existing-alert pre-check cannot race with its own insert.
	workspaceLocks sync.Map
}

// NewLifecycleService creates a new alert lifecycle engine
func NewLifecycleService(
	alerts alert.Repository,
	products product.Repository,
	auditor audit.Writer,
	dispatcher notification.Dispatcher,
	lowStockThreshold int,
	log *logger.Logger,
) alert.Engine {
	return &LifecycleService{
		alerts:     alerts,
		products:   products,
		auditor:    auditor,
		dispatcher: dispatcher,
		threshold:  int64(lowStockThreshold),
		logger:     log,
	}
}

// Sweep runs one evaluation pass over the workspace's products. An empty
// product set yields an empty result, not an error. Running a sweep twice
// with unchanged inventory produces zero further creates or closes.
func (s *LifecycleService) Sweep(ctx context.Context, workspaceID string) (*alert.SweepResult, error) {
	start := time.Now()

	lock := s.lockFor(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.sweep(ctx, workspaceID)
	metrics.RecordSweep(err == nil, time.Since(start))
	return result, err
}

func (s *LifecycleService) lockFor(workspaceID string) *sync.Mutex {
	v, _ := s.workspaceLocks.LoadOrStore(workspaceID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *LifecycleService) sweep(ctx context.Context, workspaceID string) (*alert.SweepResult, error) {
	products, err := s.products.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	open, err := s.alerts.ListOpenByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	// Index open alerts by SKU and type
	openBySKU := make(map[string]map[string]*alert.Alert, len(open))
	for _, a := range open {
		if openBySKU[a.SKU] == nil {
			openBySKU[a.SKU] = make(map[string]*alert.Alert, 2)
		}
		openBySKU[a.SKU][a.Type] = a
	}

	var (
		toCreate []*alert.Alert
		toClose  []*alert.Alert
		closing  = make(map[int64]bool)
		planned  = make(map[string]bool)
		checked  int
	)

	markClose := func(a *alert.Alert) {
		if a != nil && !closing[a.ID] {
			closing[a.ID] = true
			toClose = append(toClose, a)
		}
	}

	for _, p := range products {
		if p.SKU == "" {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"product_id":   p.ProductID,
			}).Debug("Skipping product without SKU")
			continue
		}
		if p.InventoryQuantity == nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"sku":          p.SKU,
			}).Debug("Skipping product with unknown inventory quantity")
			continue
		}
		checked++

		qty := *p.InventoryQuantity
		openForSKU := openBySKU[p.SKU]

		switch {
		case qty <= 0:
			if openForSKU[alert.TypeOutOfStock] == nil && !planned[p.SKU+"|"+alert.TypeOutOfStock] {
				planned[p.SKU+"|"+alert.TypeOutOfStock] = true
				toCreate = append(toCreate, &alert.Alert{
					WorkspaceID: workspaceID,
					ProductID:   p.ProductID,
					SKU:         p.SKU,
					Type:        alert.TypeOutOfStock,
					Severity:    alert.SeverityCritical,
					Message:     fmt.Sprintf("%s is out of stock", p.SKU),
				})
			}
			// Out-of-stock supersedes low-stock
			markClose(openForSKU[alert.TypeLowStock])

		case qty < s.threshold:
			if openForSKU[alert.TypeOutOfStock] != nil {
				// Out-of-stock takes precedence; do not also open low-stock
				continue
			}
			if openForSKU[alert.TypeLowStock] == nil && !planned[p.SKU+"|"+alert.TypeLowStock] {
				planned[p.SKU+"|"+alert.TypeLowStock] = true
				toCreate = append(toCreate, &alert.Alert{
					WorkspaceID: workspaceID,
					ProductID:   p.ProductID,
					SKU:         p.SKU,
					Type:        alert.TypeLowStock,
					Severity:    alert.SeverityWarning,
					Message:     fmt.Sprintf("%s is low on stock (%d remaining)", p.SKU, qty),
				})
			}

		default: // stock recovered
			markClose(openForSKU[alert.TypeLowStock])
			markClose(openForSKU[alert.TypeOutOfStock])
		}
	}

	closedIDs := make([]int64, len(toClose))
	for i, a := range toClose {
		closedIDs[i] = a.ID
	}
	if err := s.alerts.CloseByIDs(ctx, closedIDs); err != nil {
		return nil, err
	}
	if err := s.alerts.CreateBatch(ctx, toCreate); err != nil {
		return nil, err
	}

	for _, a := range toCreate {
		metrics.RecordAlertCreated(a.Type)
		s.auditor.Log(ctx, audit.ActorEngine, audit.ActionCreate, audit.TargetAlert,
			strconv.FormatInt(a.ID, 10), map[string]interface{}{
				"workspace_id": a.WorkspaceID,
				"sku":          a.SKU,
				"type":         a.Type,
				"severity":     a.Severity,
			})
	}
	for _, a := range toClose {
		s.auditor.Log(ctx, audit.ActorEngine, audit.ActionClose, audit.TargetAlert,
			strconv.FormatInt(a.ID, 10), map[string]interface{}{
				"workspace_id": a.WorkspaceID,
				"sku":          a.SKU,
				"type":         a.Type,
			})
	}
	metrics.RecordAlertsClosed(len(toClose))

	s.notify(ctx, workspaceID, toCreate, toClose)

	if len(toCreate) > 0 || len(toClose) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"workspace_id":     workspaceID,
			"created":          len(toCreate),
			"closed":           len(toClose),
			"products_checked": checked,
		}).Info("Inventory sweep completed")
	}

	return &alert.SweepResult{
		WorkspaceID:     workspaceID,
		Created:         toCreate,
		ClosedIDs:       closedIDs,
		ProductsChecked: checked,
	}, nil
}

// notify announces the sweep outcome. Delivery is best-effort; a dispatcher
// failure is logged and never fails the sweep.
func (s *LifecycleService) notify(ctx context.Context, workspaceID string, created, closed []*alert.Alert) {
	for _, a := range created {
		if err := s.dispatcher.Notify(ctx, notification.EventAlertCreated, []*alert.Alert{a}); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"sku":          a.SKU,
			}).ErrorWithErr(err, "Failed to send alert-created notification")
		}
	}
	for _, a := range closed {
		if err := s.dispatcher.Notify(ctx, notification.EventAlertClosed, []*alert.Alert{a}); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"sku":          a.SKU,
			}).ErrorWithErr(err, "Failed to send alert-closed notification")
		}
	}

	if len(created)+len(closed) > 1 {
		all := make([]*alert.Alert, 0, len(created)+len(closed))
		all = append(all, created...)
		all = append(all, closed...)
		if err := s.dispatcher.Notify(ctx, notification.EventAlertBulk, all); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"alerts":       len(all),
			}).ErrorWithErr(err, "Failed to send bulk alert notification")
		}
	}
}

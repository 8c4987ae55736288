package adapter

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

// LeadNotifier tells staff about a newly created warm lead.
type LeadNotifier interface {
	NotifyWarmLead(ctx context.Context, lead *model.WarmLead) error
}

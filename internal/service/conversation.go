// Package service provides business logic for the conversation logger.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avo-labs/conversation-logger/internal/model"
	"github.com/avo-labs/conversation-logger/internal/store"
	"github.com/avo-labs/conversation-logger/pkg/logger"
	"github.com/avo-labs/conversation-logger/pkg/metrics"
)

// ConversationService handles conversation record operations.
type ConversationService struct {
	store  store.Store
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(st store.Store, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  st,
		logger: log,
	}
}

// Save stores one record. The user name is trimmed of surrounding whitespace
// and a missing timestamp defaults to the current UTC time.
func (s *ConversationService) Save(ctx context.Context, req *model.CreateRequest) (*model.CreateResponse, error) {
	rec := model.Record{
		UserName:     strings.TrimSpace(req.UserName),
		Conversation: req.Conversation,
		Subject:      req.Subject,
	}
	if req.Date != nil {
		rec.Date = req.Date.UTC()
	} else {
		rec.Date = time.Now().UTC()
	}

	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		metrics.RecordStoreError("insert")
		s.logger.Error("insert failed", zap.Error(err))
		return nil, fmt.Errorf("save record: %w", err)
	}

	metrics.ConversationsSavedTotal.Inc()
	s.logger.Info("conversation saved",
		zap.Int64("record_id", id),
		zap.String("user_name", rec.UserName),
	)

	return &model.CreateResponse{ID: id, Status: "ok"}, nil
}

// List returns record summaries matching the filter plus the total count of
// matching rows ignoring limit and offset.
func (s *ConversationService) List(ctx context.Context, f store.ListFilter) (*model.ListResponse, error) {
	records, total, err := s.store.List(ctx, f)
	if err != nil {
		metrics.RecordStoreError("list")
		s.logger.Error("list failed", zap.Error(err))
		return nil, fmt.Errorf("list records: %w", err)
	}

	items := make([]model.Summary, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.Summarize())
	}
	return &model.ListResponse{Items: items, Total: total}, nil
}

// Get returns the full record, or store.ErrNotFound when no row matches the
// id (and subject, when the lookup is subject-scoped).
func (s *ConversationService) Get(ctx context.Context, id int64, subject *string) (*model.Detail, error) {
	rec, err := s.store.Get(ctx, id, subject)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		metrics.RecordStoreError("get")
		s.logger.Error("get failed", zap.Int64("record_id", id), zap.Error(err))
		return nil, fmt.Errorf("get record: %w", err)
	}
	detail := rec.Detail()
	return &detail, nil
}

// Export returns the transcript of one record rendered as multi-line text.
func (s *ConversationService) Export(ctx context.Context, id int64, subject *string) (string, error) {
	rec, err := s.store.Get(ctx, id, subject)
	if err != nil {
		if err == store.ErrNotFound {
			return "", store.ErrNotFound
		}
		metrics.RecordStoreError("export")
		s.logger.Error("export failed", zap.Int64("record_id", id), zap.Error(err))
		return "", fmt.Errorf("export record: %w", err)
	}

	metrics.ConversationExportsTotal.Inc()
	return model.ExportText(rec.Conversation), nil
}

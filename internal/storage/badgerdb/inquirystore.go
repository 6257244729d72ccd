package badgerdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
)

// InquiryStore implements interfaces.InquiryStore using BadgerHold.
type InquiryStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *InquiryStore) Create(_ context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = fmt.Sprintf("inq_%s", uuid.New().String()[:8])
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now()
	}
	if err := s.db.Insert(inquiry.ID, inquiry); err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	s.logger.Debug().Str("inquiry_id", inquiry.ID).Str("variant", inquiry.Variant).Msg("Inquiry stored")
	return nil
}

func (s *InquiryStore) Get(_ context.Context, id string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.db.Get(id, &inquiry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("inquiry '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get inquiry '%s': %w", id, err)
	}
	normalizePlatforms(&inquiry)
	return &inquiry, nil
}

// Gob does not preserve the distinction between an empty and a nil slice,
// so a stored platforms=[] comes back nil after a round-trip.
func normalizePlatforms(inquiry *models.Inquiry) {
	if inquiry.Variant == models.InquiryVariantSMM && inquiry.Platforms == nil {
		inquiry.Platforms = []string{}
	}
}

func (s *InquiryStore) List(_ context.Context, opts interfaces.InquiryListOptions) ([]*models.Inquiry, int, error) {
	var query *badgerhold.Query
	if opts.Variant != "" {
		query = badgerhold.Where("Variant").Eq(opts.Variant)
	}

	var all []models.Inquiry
	if err := s.db.Find(&all, query); err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}

	filtered := make([]*models.Inquiry, 0, len(all))
	for i := range all {
		inq := &all[i]
		if opts.Email != "" && inq.Email != opts.Email {
			continue
		}
		if opts.Since != nil && inq.CreatedAt.Before(*opts.Since) {
			continue
		}
		if opts.Before != nil && !inq.CreatedAt.Before(*opts.Before) {
			continue
		}
		normalizePlatforms(inq)
		filtered = append(filtered, inq)
	}

	asc := opts.Sort == "created_at_asc"
	sort.Slice(filtered, func(i, j int) bool {
		ti, tj := filtered[i].CreatedAt, filtered[j].CreatedAt
		if ti.Equal(tj) {
			// ID as tiebreaker for deterministic ordering
			if asc {
				return filtered[i].ID < filtered[j].ID
			}
			return filtered[i].ID > filtered[j].ID
		}
		if asc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(filtered)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	start := (page - 1) * perPage
	if start >= total {
		return []*models.Inquiry{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (s *InquiryStore) Delete(_ context.Context, id string) error {
	if err := s.db.Delete(id, models.Inquiry{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete inquiry '%s': %w", id, err)
	}
	return nil
}

func (s *InquiryStore) Summary(_ context.Context) (*models.InquirySummary, error) {
	var all []models.Inquiry
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to summarize inquiries: %w", err)
	}

	summary := &models.InquirySummary{
		Total:     len(all),
		ByVariant: make(map[string]int),
	}
	for i := range all {
		summary.ByVariant[all[i].Variant]++
		if summary.Newest == nil || all[i].CreatedAt.After(*summary.Newest) {
			t := all[i].CreatedAt
			summary.Newest = &t
		}
	}
	return summary, nil
}

func (s *InquiryStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.InquiryStore = (*InquiryStore)(nil)

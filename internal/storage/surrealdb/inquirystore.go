package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
)

// inquirySelectFields aliases inquiryId to id for struct mapping. Field
// names mirror the model's json tags so query results decode directly.
const inquirySelectFields = `inquiryId as id, variant, name, email, phone, company,
	projectType, budget, message, platforms, goals, createdAt`

// InquiryStore implements interfaces.InquiryStore using SurrealDB.
type InquiryStore struct {
	m      *Manager
	logger *common.Logger
}

func (s *InquiryStore) Create(ctx context.Context, inquiry *models.Inquiry) error {
	db, err := s.m.conn(ctx)
	if err != nil {
		return err
	}

	if inquiry.ID == "" {
		inquiry.ID = fmt.Sprintf("inq_%s", uuid.New().String()[:8])
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now()
	}

	sql := `UPSERT $rid SET
		inquiryId = $inquiryId, variant = $variant, name = $name, email = $email,
		phone = $phone, company = $company, projectType = $projectType,
		budget = $budget, message = $message, platforms = $platforms,
		goals = $goals, createdAt = $createdAt`
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID("inquiry", inquiry.ID),
		"inquiryId":   inquiry.ID,
		"variant":     inquiry.Variant,
		"name":        inquiry.Name,
		"email":       inquiry.Email,
		"phone":       inquiry.Phone,
		"company":     inquiry.Company,
		"projectType": inquiry.ProjectType,
		"budget":      inquiry.Budget,
		"message":     inquiry.Message,
		"platforms":   inquiry.Platforms,
		"goals":       inquiry.Goals,
		"createdAt":   inquiry.CreatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, db, sql, vars); err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	s.logger.Debug().Str("inquiry_id", inquiry.ID).Str("variant", inquiry.Variant).Msg("Inquiry stored")
	return nil
}

func (s *InquiryStore) Get(ctx context.Context, id string) (*models.Inquiry, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + inquirySelectFields + " FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("inquiry", id)}

	results, err := surrealdb.Query[[]models.Inquiry](ctx, db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("inquiry '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("inquiry '%s': %w", id, interfaces.ErrNotFound)
	}
	inquiry := &(*results)[0].Result[0]
	normalizePlatforms(inquiry)
	return inquiry, nil
}

// A stored platforms=[] can decode as nil, so the empty default is
// restored on the way out.
func normalizePlatforms(inquiry *models.Inquiry) {
	if inquiry.Variant == models.InquiryVariantSMM && inquiry.Platforms == nil {
		inquiry.Platforms = []string{}
	}
}

func (s *InquiryStore) List(ctx context.Context, opts interfaces.InquiryListOptions) ([]*models.Inquiry, int, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := ""
	vars := map[string]any{}

	if opts.Variant != "" {
		where += " AND variant = $variant"
		vars["variant"] = opts.Variant
	}
	if opts.Email != "" {
		where += " AND email = $email"
		vars["email"] = opts.Email
	}
	if opts.Since != nil {
		where += " AND createdAt >= $since"
		vars["since"] = *opts.Since
	}
	if opts.Before != nil {
		where += " AND createdAt < $before"
		vars["before"] = *opts.Before
	}

	whereClause := ""
	if where != "" {
		whereClause = " WHERE " + where[5:]
	}

	// inquiryId as tiebreaker for deterministic ordering when timestamps are equal
	orderBy := "ORDER BY createdAt DESC, inquiryId DESC"
	if opts.Sort == "created_at_asc" {
		orderBy = "ORDER BY createdAt ASC, inquiryId ASC"
	}

	countSQL := "SELECT count() AS cnt FROM inquiry" + whereClause + " GROUP ALL"
	type countResult struct {
		Cnt int `json:"cnt"`
	}
	total := 0
	countResults, err := surrealdb.Query[[]countResult](ctx, db, countSQL, vars)
	if err == nil && countResults != nil && len(*countResults) > 0 && len((*countResults)[0].Result) > 0 {
		total = (*countResults)[0].Result[0].Cnt
	}

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
	offset := (page - 1) * perPage

	dataSQL := "SELECT " + inquirySelectFields + " FROM inquiry" + whereClause + " " + orderBy + " LIMIT $limit START $start"
	vars["limit"] = perPage
	vars["start"] = offset

	results, err := surrealdb.Query[[]models.Inquiry](ctx, db, dataSQL, vars)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}

	items := make([]*models.Inquiry, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			inquiry := &(*results)[0].Result[i]
			normalizePlatforms(inquiry)
			items = append(items, inquiry)
		}
	}
	return items, total, nil
}

func (s *InquiryStore) Delete(ctx context.Context, id string) error {
	db, err := s.m.conn(ctx)
	if err != nil {
		return err
	}
	_, err = surrealdb.Delete[models.Inquiry](ctx, db, surrealmodels.NewRecordID("inquiry", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return nil
}

func (s *InquiryStore) Summary(ctx context.Context) (*models.InquirySummary, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.InquirySummary{
		ByVariant: make(map[string]int),
	}

	type countResult struct {
		Cnt int `json:"cnt"`
	}
	totalSQL := "SELECT count() AS cnt FROM inquiry GROUP ALL"
	totalResults, err := surrealdb.Query[[]countResult](ctx, db, totalSQL, nil)
	if err == nil && totalResults != nil && len(*totalResults) > 0 && len((*totalResults)[0].Result) > 0 {
		summary.Total = (*totalResults)[0].Result[0].Cnt
	}

	type groupResult struct {
		Group string `json:"group"`
		Cnt   int    `json:"cnt"`
	}
	variantSQL := "SELECT variant AS group, count() AS cnt FROM inquiry GROUP BY variant"
	variantResults, err := surrealdb.Query[[]groupResult](ctx, db, variantSQL, nil)
	if err == nil && variantResults != nil && len(*variantResults) > 0 {
		for _, r := range (*variantResults)[0].Result {
			summary.ByVariant[r.Group] = r.Cnt
		}
	}

	type timeResult struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	newestSQL := "SELECT createdAt FROM inquiry ORDER BY createdAt DESC LIMIT 1"
	newestResults, err := surrealdb.Query[[]timeResult](ctx, db, newestSQL, nil)
	if err == nil && newestResults != nil && len(*newestResults) > 0 && len((*newestResults)[0].Result) > 0 {
		t := (*newestResults)[0].Result[0].CreatedAt
		summary.Newest = &t
	}

	return summary, nil
}

func (s *InquiryStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.InquiryStore = (*InquiryStore)(nil)

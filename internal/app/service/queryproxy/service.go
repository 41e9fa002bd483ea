package queryproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldline/portal/pkg/types"
)

var (
	// ErrUnsupportedMethod rejects descriptors naming a method this proxy
	// does not execute. Deliberately fail-closed: an unrecognized method
	// must never degrade into an unfiltered select.
	ErrUnsupportedMethod = errors.New("unsupported query method")
	// ErrUnsupportedFilter rejects unknown filter types for the same reason.
	ErrUnsupportedFilter = errors.New("unsupported filter type")
	// ErrUnknownTable rejects tables outside the allow-list. The proxy
	// enforces workspace scoping itself instead of relying on datastore
	// row-level security, so only tables carrying account_id are exposed.
	ErrUnknownTable = errors.New("table not exposed to the query proxy")
	// ErrBadIdentifier rejects column names that are not plain identifiers.
	ErrBadIdentifier = errors.New("invalid column identifier")
	// ErrUnsupportedResponse rejects unknown response shapes.
	ErrUnsupportedResponse = errors.New("unsupported response shape")
)

// Request is the declarative query descriptor accepted by the proxy.
type Request struct {
	Table    string          `json:"table"`
	Method   string          `json:"method"`
	Columns  []string        `json:"columns"`
	Payload  json.RawMessage `json:"payload"`
	Filters  []Filter        `json:"filters"`
	OrderBy  []Order         `json:"order_by"`
	Limit    *int            `json:"limit"`
	Response string          `json:"response"`
}

type Filter struct {
	Type   string `json:"type"`
	Column string `json:"column"`
	Value  any    `json:"value"`
	// Operator refines "not" filters; only not.eq is supported.
	Operator string `json:"operator"`
}

type Order struct {
	Column     string `json:"column"`
	Ascending  *bool  `json:"ascending"`
	NullsFirst *bool  `json:"nulls_first"`
}

// Result mirrors the datastore driver's envelope. Status is the store-level
// status; the HTTP layer substitutes 200 for the 204 no-content sentinel.
type Result struct {
	Data   any     `json:"data"`
	Error  *string `json:"error"`
	Status int     `json:"status"`
}

// exposedTables maps descriptor table names to physical tables. Every entry
// carries account_id, which the proxy forces into each query.
var exposedTables = map[string]string{
	"clients":  "client",
	"projects": "project",
	"contacts": "contact",
	"intakes":  "intake_submission",
}

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Service struct {
	log *zap.SugaredLogger
	db  *gorm.DB
}

func NewService(log *zap.SugaredLogger, db *gorm.DB) *Service {
	return &Service{log: log, db: db}
}

// Execute runs one descriptor scoped to the caller's workspace and returns
// the driver-shaped result. Descriptor errors surface as Go errors (mapped to
// 400s by the handler); row-level conditions (no row for single) surface
// inside the Result like the datastore driver would report them.
func (s *Service) Execute(ctx context.Context, accountID string, req *Request) (*Result, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	if req == nil || req.Table == "" {
		return nil, fmt.Errorf("table is required")
	}
	table, ok := exposedTables[req.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, req.Table)
	}

	filters, err := buildFilters(req.Filters)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = "select"
	}
	switch method {
	case "select":
		return s.execSelect(ctx, table, accountID, req, filters)
	case "insert":
		return s.execInsert(ctx, table, accountID, req, false)
	case "upsert":
		return s.execInsert(ctx, table, accountID, req, true)
	case "update":
		return s.execUpdate(ctx, table, accountID, req, filters)
	case "delete":
		return s.execDelete(ctx, table, accountID, filters)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

func buildFilters(in []Filter) ([]*types.CommonFilter, error) {
	out := make([]*types.CommonFilter, 0, len(in))
	for _, f := range in {
		if !identifierRe.MatchString(f.Column) {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, f.Column)
		}
		switch f.Type {
		case "eq":
			out = append(out, &types.CommonFilter{Field: f.Column, Operator: types.CommonFilterOperatorEq, Values: []any{f.Value}})
		case "in":
			values, ok := f.Value.([]any)
			if !ok {
				values = []any{f.Value}
			}
			out = append(out, &types.CommonFilter{Field: f.Column, Operator: types.CommonFilterOperatorIn, Values: values})
		case "ilike":
			out = append(out, &types.CommonFilter{Field: f.Column, Operator: types.CommonFilterOperatorILike, Values: []any{f.Value}})
		case "not":
			if f.Operator != "" && f.Operator != "eq" {
				return nil, fmt.Errorf("%w: not.%s", ErrUnsupportedFilter, f.Operator)
			}
			out = append(out, &types.CommonFilter{Field: f.Column, Operator: types.CommonFilterOperatorNotEq, Values: []any{f.Value}})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilter, f.Type)
		}
	}
	return out, nil
}

func (s *Service) scoped(ctx context.Context, table, accountID string, filters []*types.CommonFilter) *gorm.DB {
	tx := s.db.WithContext(ctx).Table(table).Where("account_id = ?", accountID)
	for _, f := range filters {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{f}})
	}
	return tx
}

func (s *Service) execSelect(ctx context.Context, table, accountID string, req *Request, filters []*types.CommonFilter) (*Result, error) {
	tx := s.scoped(ctx, table, accountID, filters)

	if len(req.Columns) > 0 {
		for _, col := range req.Columns {
			if !identifierRe.MatchString(col) {
				return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, col)
			}
		}
		tx = tx.Select(strings.Join(req.Columns, ", "))
	}

	for _, o := range req.OrderBy {
		if !identifierRe.MatchString(o.Column) {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, o.Column)
		}
		dir := "ASC"
		if o.Ascending != nil && !*o.Ascending {
			dir = "DESC"
		}
		expr := fmt.Sprintf("%s %s", o.Column, dir)
		if o.NullsFirst != nil {
			if *o.NullsFirst {
				expr += " NULLS FIRST"
			} else {
				expr += " NULLS LAST"
			}
		}
		tx = tx.Order(expr)
	}

	if req.Limit != nil && *req.Limit > 0 {
		tx = tx.Limit(*req.Limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select on %s failed: %w", table, err)
	}
	return shapeSelectResult(rows, req.Response)
}

// shapeSelectResult applies the requested response shape to the fetched rows.
func shapeSelectResult(rows []map[string]any, shape string) (*Result, error) {
	switch shape {
	case "", "default":
		if rows == nil {
			rows = []map[string]any{}
		}
		return &Result{Data: rows, Status: http.StatusOK}, nil
	case "maybeSingle":
		if len(rows) > 1 {
			msg := "expected at most one row"
			return &Result{Error: &msg, Status: http.StatusNotAcceptable}, nil
		}
		if len(rows) == 0 {
			return &Result{Data: nil, Status: http.StatusOK}, nil
		}
		return &Result{Data: rows[0], Status: http.StatusOK}, nil
	case "single":
		if len(rows) != 1 {
			msg := fmt.Sprintf("expected exactly one row, got %d", len(rows))
			return &Result{Error: &msg, Status: http.StatusNotAcceptable}, nil
		}
		return &Result{Data: rows[0], Status: http.StatusOK}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedResponse, shape)
	}
}

func (s *Service) execInsert(ctx context.Context, table, accountID string, req *Request, upsert bool) (*Result, error) {
	rows, err := decodePayload(req.Payload)
	if err != nil {
		return nil, err
	}
	// The caller's workspace always wins over whatever the payload claims.
	for _, row := range rows {
		row["account_id"] = accountID
	}

	tx := s.db.WithContext(ctx).Table(table)
	if upsert {
		tx = tx.Clauses(clause.OnConflict{UpdateAll: true})
	}
	if err := tx.Create(rows).Error; err != nil {
		return nil, fmt.Errorf("insert on %s failed: %w", table, err)
	}
	return &Result{Data: rows, Status: http.StatusCreated}, nil
}

// updateAssignments strips the columns a caller must not rewrite through the
// proxy: the primary key and the tenant scope.
func updateAssignments(row map[string]any) map[string]any {
	delete(row, "id")
	delete(row, "account_id")
	return row
}

func (s *Service) execUpdate(ctx context.Context, table, accountID string, req *Request, filters []*types.CommonFilter) (*Result, error) {
	rows, err := decodePayload(req.Payload)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("update payload must be a single object")
	}

	res := s.scoped(ctx, table, accountID, filters).Updates(updateAssignments(rows[0]))
	if res.Error != nil {
		return nil, fmt.Errorf("update on %s failed: %w", table, res.Error)
	}
	return &Result{Status: http.StatusNoContent}, nil
}

func (s *Service) execDelete(ctx context.Context, table, accountID string, filters []*types.CommonFilter) (*Result, error) {
	res := s.scoped(ctx, table, accountID, filters).Delete(nil)
	if res.Error != nil {
		return nil, fmt.Errorf("delete on %s failed: %w", table, res.Error)
	}
	return &Result{Status: http.StatusNoContent}, nil
}

func decodePayload(raw json.RawMessage) ([]map[string]any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload is required")
	}
	var one map[string]any
	if err := json.Unmarshal(raw, &one); err == nil {
		return []map[string]any{one}, nil
	}
	var many []map[string]any
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many, nil
	}
	return nil, fmt.Errorf("payload must be an object or a non-empty array of objects")
}

package queryproxy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline/portal/pkg/types"
)

func newTestServiceNoDB() *Service {
	return NewService(zap.NewNop().Sugar(), nil)
}

func TestExecute_RejectsUnknownTable(t *testing.T) {
	svc := newTestServiceNoDB()
	for _, table := range []string{"accounts", "subscription", "pg_catalog", "clients;drop"} {
		_, err := svc.Execute(context.Background(), "acct-1", &Request{Table: table})
		require.ErrorIs(t, err, ErrUnknownTable, "table %q must not be exposed", table)
	}
}

func TestExecute_RejectsUnknownMethod(t *testing.T) {
	svc := newTestServiceNoDB()
	for _, method := range []string{"rpc", "truncate", "SELECT", "merge"} {
		_, err := svc.Execute(context.Background(), "acct-1", &Request{Table: "clients", Method: method})
		require.ErrorIs(t, err, ErrUnsupportedMethod, "method %q must be rejected", method)
	}
}

func TestExecute_RejectsUnknownFilterType(t *testing.T) {
	svc := newTestServiceNoDB()
	_, err := svc.Execute(context.Background(), "acct-1", &Request{
		Table:   "clients",
		Filters: []Filter{{Type: "cs", Column: "tags", Value: "x"}},
	})
	require.ErrorIs(t, err, ErrUnsupportedFilter)
}

func TestExecute_RejectsNotWithNonEqOperator(t *testing.T) {
	svc := newTestServiceNoDB()
	_, err := svc.Execute(context.Background(), "acct-1", &Request{
		Table:   "clients",
		Filters: []Filter{{Type: "not", Column: "status", Operator: "gt", Value: 3}},
	})
	require.ErrorIs(t, err, ErrUnsupportedFilter)
}

func TestExecute_RejectsBadFilterColumn(t *testing.T) {
	svc := newTestServiceNoDB()
	for _, col := range []string{"", "name; --", "a.b", `"name"`} {
		_, err := svc.Execute(context.Background(), "acct-1", &Request{
			Table:   "clients",
			Filters: []Filter{{Type: "eq", Column: col, Value: "x"}},
		})
		require.ErrorIs(t, err, ErrBadIdentifier, "column %q must be rejected", col)
	}
}

func TestExecute_RequiresAccountAndTable(t *testing.T) {
	svc := newTestServiceNoDB()

	_, err := svc.Execute(context.Background(), "", &Request{Table: "clients"})
	require.Error(t, err)

	_, err = svc.Execute(context.Background(), "acct-1", &Request{})
	require.Error(t, err)

	_, err = svc.Execute(context.Background(), "acct-1", nil)
	require.Error(t, err)
}

func TestBuildFilters_MapsSupportedTypes(t *testing.T) {
	filters, err := buildFilters([]Filter{
		{Type: "eq", Column: "status", Value: "draft"},
		{Type: "in", Column: "id", Value: []any{"a", "b"}},
		{Type: "in", Column: "id", Value: "solo"},
		{Type: "ilike", Column: "name", Value: "%studio%"},
		{Type: "not", Column: "status", Operator: "eq", Value: "archived"},
		{Type: "not", Column: "status", Value: "archived"},
	})
	require.NoError(t, err)
	require.Len(t, filters, 6)

	require.Equal(t, types.CommonFilterOperatorEq, filters[0].Operator)
	require.Equal(t, []any{"draft"}, filters[0].Values)
	require.Equal(t, types.CommonFilterOperatorIn, filters[1].Operator)
	require.Equal(t, []any{"a", "b"}, filters[1].Values)
	// Scalar "in" values are treated as a one-element list.
	require.Equal(t, []any{"solo"}, filters[2].Values)
	require.Equal(t, types.CommonFilterOperatorILike, filters[3].Operator)
	require.Equal(t, types.CommonFilterOperatorNotEq, filters[4].Operator)
	require.Equal(t, types.CommonFilterOperatorNotEq, filters[5].Operator)
}

func TestShapeSelectResult(t *testing.T) {
	row := map[string]any{"id": "a"}

	// default shape always returns an array, never null.
	res, err := shapeSelectResult(nil, "")
	require.NoError(t, err)
	require.Equal(t, []map[string]any{}, res.Data)
	require.Equal(t, 200, res.Status)

	// maybeSingle with zero rows reports data null with a 200, not an error.
	res, err = shapeSelectResult(nil, "maybeSingle")
	require.NoError(t, err)
	require.Nil(t, res.Data)
	require.Nil(t, res.Error)
	require.Equal(t, 200, res.Status)

	res, err = shapeSelectResult([]map[string]any{row}, "maybeSingle")
	require.NoError(t, err)
	require.Equal(t, row, res.Data)

	res, err = shapeSelectResult([]map[string]any{row, row}, "maybeSingle")
	require.NoError(t, err)
	require.NotNil(t, res.Error)
	require.Equal(t, 406, res.Status)

	res, err = shapeSelectResult([]map[string]any{row}, "single")
	require.NoError(t, err)
	require.Equal(t, row, res.Data)

	res, err = shapeSelectResult(nil, "single")
	require.NoError(t, err)
	require.NotNil(t, res.Error)
	require.Equal(t, 406, res.Status)

	_, err = shapeSelectResult(nil, "csv")
	require.ErrorIs(t, err, ErrUnsupportedResponse)
}

func TestExecute_UpdatePayloadMustBeSingleObject(t *testing.T) {
	svc := newTestServiceNoDB()

	_, err := svc.Execute(context.Background(), "acct-1", &Request{
		Table:   "projects",
		Method:  "update",
		Payload: json.RawMessage(`[{"name":"a"},{"name":"b"}]`),
	})
	require.Error(t, err)

	_, err = svc.Execute(context.Background(), "acct-1", &Request{
		Table:  "projects",
		Method: "update",
	})
	require.Error(t, err)
}

func TestDecodePayload(t *testing.T) {
	rows, err := decodePayload(json.RawMessage(`{"name":"Studio"}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Studio", rows[0]["name"])

	rows, err = decodePayload(json.RawMessage(`[{"name":"a"},{"name":"b"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = decodePayload(nil)
	require.Error(t, err)

	_, err = decodePayload(json.RawMessage(`[]`))
	require.Error(t, err)

	_, err = decodePayload(json.RawMessage(`"scalar"`))
	require.Error(t, err)
}

func TestUpdateAssignments_StripsProtectedColumns(t *testing.T) {
	got := updateAssignments(map[string]any{
		"id":         "other-row",
		"account_id": "other-acct",
		"name":       "Studio",
		"status":     "active",
	})
	require.Equal(t, map[string]any{"name": "Studio", "status": "active"}, got)
}

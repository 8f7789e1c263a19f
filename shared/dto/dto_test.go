package dto_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"lodge/shared/dto"
)

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		withDefault bool
		expected    dto.QueryParams
	}{
		{
			name:        "all params present",
			url:         "/v1/rooms?page=2&limit=25&sort_by=name&sort_dir=asc",
			withDefault: true,
			expected:    dto.QueryParams{Page: 2, Limit: 25, SortBy: "name", SortDir: "ASC"},
		},
		{
			name:        "missing params fall back to defaults",
			url:         "/v1/rooms",
			withDefault: true,
			expected:    dto.QueryParams{Page: 1, Limit: 10},
		},
		{
			name:        "missing params without defaults stay zero",
			url:         "/v1/rooms",
			withDefault: false,
			expected:    dto.QueryParams{},
		},
		{
			name:        "invalid values are ignored",
			url:         "/v1/rooms?page=abc&limit=-5&sort_dir=sideways",
			withDefault: true,
			expected:    dto.QueryParams{Page: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			params := dto.QueryParams{}
			params.FromRequest(r, tt.withDefault)

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name       string
		filter     dto.Filter
		wantClause string
		wantArg    string
	}{
		{
			name:       "eq with table",
			filter:     dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: "room-1", Table: "rooms"},
			wantClause: "rooms.id = :id",
			wantArg:    "id",
		},
		{
			name:       "like is case insensitive",
			filter:     dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "sea"},
			wantClause: "LOWER(name) LIKE LOWER(:name)",
			wantArg:    "name",
		},
		{
			name:       "greater_eq with explicit arg name",
			filter:     dto.Filter{Field: "day", ArgName: "day_start", Operator: dto.FilterOperatorGreaterEq, Value: "2025-12-01"},
			wantClause: "day >= :day_start",
			wantArg:    "day_start",
		},
		{
			name:       "less with explicit arg name",
			filter:     dto.Filter{Field: "day", ArgName: "day_end", Operator: dto.FilterOperatorLess, Value: "2025-12-03"},
			wantClause: "day < :day_end",
			wantArg:    "day_end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.GetWhereClause()

			if strings.TrimSpace(clause) != tt.wantClause {
				t.Errorf("expected clause %q, got %q", tt.wantClause, clause)
			}

			if _, ok := args[tt.wantArg]; !ok {
				t.Errorf("expected arg %q to be bound, got %v", tt.wantArg, args)
			}
		})
	}
}

func TestFilterGroup_DefaultsToAnd(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "room-1"},
			dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "confirmed"},
		},
	}

	clause, args := group.GetWhereClause()

	if !strings.Contains(clause, "AND") {
		t.Errorf("expected AND between filters, got %q", clause)
	}

	if len(args) != 2 {
		t.Errorf("expected 2 bound args, got %d", len(args))
	}
}

func TestSortDirectionConstants(t *testing.T) {
	if dto.SortDirAsc != "ASC" || dto.SortDirDesc != "DESC" {
		t.Error("unexpected sort direction constants")
	}
}

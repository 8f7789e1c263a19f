package shared_test

import (
	"strings"
	"testing"

	"lodge/shared"
	"lodge/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns 1",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns 1",
			total:    100,
			limit:    0,
			expected: 1,
		},
		{
			name:     "negative limit returns 1",
			total:    100,
			limit:    -5,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    100,
			limit:    10,
			expected: 10,
		},
		{
			name:     "division with remainder",
			total:    101,
			limit:    10,
			expected: 11,
		},
		{
			name:     "limit greater than total",
			total:    5,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Name     string `db:"name"`
		Capacity int    `db:"capacity"`
		Ignored  string
	}

	req := updateRequest{
		Name:    "Seaview Double",
		Ignored: "not mapped",
	}

	fields := shared.TransformFields(req, "admin-1")

	if fields["name"] != "Seaview Double" {
		t.Errorf("expected name to be mapped, got %v", fields["name"])
	}

	if _, ok := fields["capacity"]; ok {
		t.Error("expected zero fields to be skipped")
	}

	if fields["modified_by"] != "admin-1" {
		t.Errorf("expected modified_by to be stamped, got %v", fields["modified_by"])
	}

	if _, ok := fields["modified_at"]; !ok {
		t.Error("expected modified_at to be stamped")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("room-1", "id", "rooms")

	if len(group.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(group.Filters))
	}

	filter, ok := group.Filters[0].(dto.Filter)
	if !ok {
		t.Fatal("expected filter to be a dto.Filter")
	}

	if filter.Field != "id" || filter.Value != "room-1" || filter.Table != "rooms" {
		t.Errorf("unexpected filter: %+v", filter)
	}

	if filter.Operator != dto.FilterOperatorEq {
		t.Errorf("expected eq operator, got %s", filter.Operator)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if key := shared.BuildCacheKey("room:get"); key != "room:get" {
		t.Errorf("expected bare prefix, got %s", key)
	}

	if key := shared.BuildCacheKey("room:get", "room-1"); key != "room:get:room-1" {
		t.Errorf("expected joined key, got %s", key)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "name", SortDir: "ASC"}

	plain := shared.BuildCacheKeyWithQuery("room:gets", params, dto.FilterGroup{})

	if !strings.HasPrefix(plain, "room:gets:p2:l10:name:ASC") {
		t.Errorf("expected params to be encoded into the key, got %s", plain)
	}

	filtered := shared.BuildCacheKeyWithQuery("room:gets", params, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "sea", Table: "rooms"},
		},
	})

	if plain == filtered {
		t.Error("expected distinct filters to produce distinct keys")
	}
}

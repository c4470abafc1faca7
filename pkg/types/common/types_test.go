package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate_ValidUUID(t *testing.T) {
	id := ID("550e8400-e29b-41d4-a716-446655440000")
	assert.NoError(t, id.Validate())
}

func TestID_Validate_EmptyString(t *testing.T) {
	err := ID("").Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestID_Validate_InvalidFormat(t *testing.T) {
	err := ID("not-a-uuid").Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestPagination_Normalize(t *testing.T) {
	p := Pagination{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	explicit := Pagination{Page: 3, PerPage: 50}.Normalize()
	assert.Equal(t, 3, explicit.Page)
	assert.Equal(t, 50, explicit.PerPage)
}

func TestPagination_Validate(t *testing.T) {
	cases := []struct {
		name    string
		p       Pagination
		wantErr bool
	}{
		{"valid", Pagination{Page: 1, PerPage: 10}, false},
		{"max per_page", Pagination{Page: 1, PerPage: 100}, false},
		{"page zero", Pagination{Page: 0, PerPage: 10}, true},
		{"per_page zero", Pagination{Page: 1, PerPage: 0}, true},
		{"per_page above max", Pagination{Page: 1, PerPage: 101}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 40, Pagination{Page: 5, PerPage: 10}.Offset())
}

func TestNewPageResponse_TotalPagesCeiling(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		perPage   int
		wantPages int
	}{
		{"exact division", 100, 10, 10},
		{"remainder rounds up", 101, 10, 11},
		{"empty", 0, 10, 0},
		{"single partial page", 3, 10, 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			resp := NewPageResponse([]string{}, tc.total, 1, tc.perPage)
			assert.Equal(t, tc.wantPages, resp.TotalPages)
		})
	}
}

func TestNewPageResponse_NilItemsBecomesEmptySlice(t *testing.T) {
	resp := NewPageResponse[string](nil, 0, 1, 10)
	require.NotNil(t, resp.Items)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
}

func TestDateRange_Validate(t *testing.T) {
	from := Timestamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	to := Timestamp(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, DateRange{From: from, To: to}.Validate())
	assert.Error(t, DateRange{From: to, To: from}.Validate())
	assert.NoError(t, DateRange{From: from}.Validate(), "open upper bound is valid")
	assert.NoError(t, DateRange{To: to}.Validate(), "open lower bound is valid")
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	orig := Timestamp(time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC))

	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	var parsed Timestamp
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, time.Time(orig).Equal(time.Time(parsed)))
}

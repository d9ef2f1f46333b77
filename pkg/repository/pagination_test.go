package repository

import (
	"testing"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name             string
		total            int64
		page, limit      int
		totalPages       int
		hasNext, hasPrev bool
	}{
		{"empty", 0, 1, 10, 0, false, false},
		{"single partial page", 3, 1, 10, 1, false, false},
		{"exact multiple last page", 20, 2, 10, 2, false, true},
		{"exact multiple first page", 20, 1, 10, 2, true, false},
		{"middle page", 25, 2, 10, 3, true, true},
		{"beyond last page", 5, 4, 2, 3, false, true},
		{"limit one", 3, 3, 1, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, m.Total)
			assert.Equal(t, tt.totalPages, m.TotalPages)
			assert.Equal(t, tt.hasNext, m.HasNext)
			assert.Equal(t, tt.hasPrev, m.HasPrev)
		})
	}
}

func TestNewMeta_MatchesCeilingForAllSmallInputs(t *testing.T) {
	for total := int64(0); total <= 50; total++ {
		for limit := 1; limit <= 7; limit++ {
			want := int(total) / limit
			if int(total)%limit != 0 {
				want++
			}
			for page := 1; page <= want+1; page++ {
				m := NewMeta(total, page, limit)
				assert.Equal(t, want, m.TotalPages)
				assert.Equal(t, page < want, m.HasNext)
				assert.Equal(t, page > 1, m.HasPrev)
			}
		}
	}
}

func TestPageParams_Validate(t *testing.T) {
	assert.NoError(t, PageParams{Page: 1, Limit: 1}.Validate())

	err := PageParams{Page: 0, Limit: 10}.Validate()
	assert.True(t, errs.IsBadRequest(err))

	err = PageParams{Page: 1, Limit: 0}.Validate()
	assert.True(t, errs.IsBadRequest(err))
	appErr, _ := errs.As(err)
	assert.Equal(t, "limit", appErr.Field)
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageParams{Page: 3, Limit: 10}.Offset())
}

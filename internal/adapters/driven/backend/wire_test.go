package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `{"id":"abc"}`, "abc"},
		{"integer", `{"id":42}`, "42"},
		{"float", `{"id":4.5}`, "4.5"},
		{"null", `{"id":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto companyDTO
			require.NoError(t, json.Unmarshal([]byte(tt.in), &dto))
			assert.Equal(t, tt.want, string(dto.ID))
		})
	}
}

func TestDocumentDTO_FillsCompany(t *testing.T) {
	var dto documentDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"a.pdf","content":"x"}`), &dto))

	doc := dto.toDomain("9")
	assert.Equal(t, "3", doc.ID)
	assert.Equal(t, "9", doc.CompanyID)
	assert.Equal(t, "a.pdf", doc.Name)
}

func TestStructuredReviewDTO(t *testing.T) {
	var dto structuredReviewDTO
	body := `{"clauses":[{"id":1,"name":"Term","description":"d","relevantChunks":["a","b"]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &dto))

	result := dto.toDomain()
	require.Len(t, result, 1)
	assert.Equal(t, "Term", result[0].ClauseName)
	assert.Equal(t, 2, result.QuoteCount())
}

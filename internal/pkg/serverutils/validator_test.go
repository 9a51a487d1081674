package serverutils

import (
	"strings"
	"testing"

	"turbo-notes-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoteRequestAllowsEmptyTitle(t *testing.T) {
	assert.NoError(t, ValidateRequest(dto.CreateNoteRequest{Title: "", Content: "body"}))
	assert.NoError(t, ValidateRequest(dto.UpdateNoteRequest{Title: "", Content: ""}))
}

func TestValidateNoteRequestRejectsOverlongTitle(t *testing.T) {
	long := strings.Repeat("x", 201)

	err := ValidateRequest(dto.CreateNoteRequest{Title: long})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'title' failed on 'max'")

	assert.NoError(t, ValidateRequest(dto.CreateNoteRequest{Title: strings.Repeat("x", 200)}))
}

func TestValidateCategoryRequestColorIsOptional(t *testing.T) {
	assert.NoError(t, ValidateRequest(dto.CreateCategoryRequest{Name: "Recipes"}))

	err := ValidateRequest(dto.CreateCategoryRequest{Color: "#FFCBCB"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name' failed on 'required'")
}

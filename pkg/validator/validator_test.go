package validator

import (
	"testing"

	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"

	"github.com/stretchr/testify/assert"
)

type bookmarkForm struct {
	Payload string `binding:"required,pdfpayload"`
	Color   string `binding:"bookmarkcolor"`
	Format  string `binding:"noteformat"`
}

func TestCustomTags(t *testing.T) {
	v := NewCustomValidator()
	encoded := pdflink.MustEncode(pdflink.Payload{LinkID: "a", PageNumber: 1})

	assert.NoError(t, v.ValidateStruct(&bookmarkForm{Payload: encoded, Color: "#abc", Format: "json"}))
	assert.NoError(t, v.ValidateStruct(bookmarkForm{Payload: encoded}))
	assert.Error(t, v.ValidateStruct(&bookmarkForm{Payload: "not a payload"}))
	assert.Error(t, v.ValidateStruct(&bookmarkForm{Payload: encoded, Color: "red"}))
	assert.Error(t, v.ValidateStruct(&bookmarkForm{Payload: encoded, Format: "pdf"}))
	assert.NoError(t, v.ValidateStruct("not a struct"))
}

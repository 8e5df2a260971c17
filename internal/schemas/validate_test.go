package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Questions(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "valid", doc: `{"questions":[{"text":"Explain closures.","category":"technical"}]}`},
		{name: "category optional", doc: `{"questions":[{"text":"Explain closures."}]}`},
		{name: "missing questions", doc: `{"items":[]}`, wantErr: true},
		{name: "empty list", doc: `{"questions":[]}`, wantErr: true},
		{name: "empty text", doc: `{"questions":[{"text":""}]}`, wantErr: true},
		{name: "text wrong type", doc: `{"questions":[{"text":5}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Questions, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.NotEmpty(t, vErr.Errors)
		})
	}
}

func TestValidate_Evaluation(t *testing.T) {
	assert.NoError(t, Validate(Evaluation, `{"score":80,"feedback":"ok","improvements":["a"]}`))
	assert.NoError(t, Validate(Evaluation, `{"score":80}`))

	err := Validate(Evaluation, `{"feedback":"no score"}`)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "(root)", vErr.Errors[0].Field)
	assert.Contains(t, err.Error(), Evaluation)

	assert.Error(t, Validate(Evaluation, `{"score":"high"}`))
}

func TestValidate_NotJSON(t *testing.T) {
	err := Validate(Evaluation, `score: 80`)
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "schema not embedded")
}

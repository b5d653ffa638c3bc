package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhoang/assessforms/internal/schema"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&schema.ValidationError{Field: "title", Reason: "must not be empty"}, http.StatusBadRequest},
		{&schema.NotFoundError{Kind: "form", ID: "x"}, http.StatusNotFound},
		{&schema.InvariantError{Reason: "not a permutation"}, http.StatusConflict},
		{&schema.SchemaError{Reason: "unknown question type"}, http.StatusUnprocessableEntity},
		{errors.New("backend unavailable"), http.StatusInternalServerError},
		// Wrapped domain errors still map.
		{fmt.Errorf("load form: %w", &schema.NotFoundError{Kind: "form", ID: "x"}), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

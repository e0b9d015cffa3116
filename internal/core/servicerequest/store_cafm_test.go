// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package servicerequest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/core/servicerequest"
	"github.com/facilia/facilia/pkg/pointer"
)

// capturedForm is what the fake upstream saw in the creating POST.
type capturedForm struct {
	values    map[string][]string
	filenames []string
}

func newSubmitServer(t *testing.T, captured *capturedForm) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseMultipartForm(32<<20))
		captured.values = request.MultipartForm.Value
		for _, header := range request.MultipartForm.File["images"] {
			captured.filenames = append(captured.filenames, header.Filename)
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(servicerequest.ServiceRequest{ID: "SR1", Number: "WO-1042", Status: "open"})
	}))
}

/*
TestCAFMSource_Submit_FullDraft sends every field plus ordered images.
*/
func TestCAFMSource_Submit_FullDraft(t *testing.T) {
	var captured capturedForm
	server := newSubmitServer(t, &captured)
	defer server.Close()

	source := servicerequest.NewCAFMSource(cafm.NewClient(server.URL, nil))

	record, err := source.Submit(context.Background(), cafm.Session{Token: "t", TenantID: "acme"}, servicerequest.Submission{
		LocationID:  "L1",
		AssetID:     pointer.To("A1"),
		CategoryID:  "leak",
		Description: "  Water under the sink.  ",
		Images: []servicerequest.Image{
			{Filename: "photo-1.jpg", Reader: strings.NewReader("jpeg-1")},
			{Filename: "photo-2.jpg", Reader: strings.NewReader("jpeg-2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "SR1", record.ID)
	assert.Equal(t, "WO-1042", record.Number)
	assert.Equal(t, []string{"L1"}, captured.values["location_id"])
	assert.Equal(t, []string{"leak"}, captured.values["category_id"])
	assert.Equal(t, []string{"A1"}, captured.values["asset_id"])
	assert.Equal(t, []string{"Water under the sink."}, captured.values["description"], "description must be trimmed")
	assert.Equal(t, []string{"photo-1.jpg", "photo-2.jpg"}, captured.filenames, "image order must survive")
}

/*
TestCAFMSource_Submit_OmitsEmptyOptionals: a whitespace-only description and
an unchosen asset produce no field at all, not an empty one.
*/
func TestCAFMSource_Submit_OmitsEmptyOptionals(t *testing.T) {
	var captured capturedForm
	server := newSubmitServer(t, &captured)
	defer server.Close()

	source := servicerequest.NewCAFMSource(cafm.NewClient(server.URL, nil))

	_, err := source.Submit(context.Background(), cafm.Session{TenantID: "acme"}, servicerequest.Submission{
		LocationID:  "L1",
		CategoryID:  "other",
		Description: "   \t\n  ",
	})
	require.NoError(t, err)

	_, hasDescription := captured.values["description"]
	_, hasAsset := captured.values["asset_id"]
	assert.False(t, hasDescription, "whitespace-only description must be absent from the form")
	assert.False(t, hasAsset)
	assert.Empty(t, captured.filenames)
}

/*
TestCAFMSource_Submit_UpstreamRejection surfaces the failure without retrying.
*/
func TestCAFMSource_Submit_UpstreamRejection(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls++
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = writer.Write([]byte(`{"error":"Category is no longer available","code":"UNPROCESSABLE"}`))
	}))
	defer server.Close()

	source := servicerequest.NewCAFMSource(cafm.NewClient(server.URL, nil))

	_, err := source.Submit(context.Background(), cafm.Session{TenantID: "acme"}, servicerequest.Submission{
		LocationID: "L1",
		CategoryID: "gone",
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed submit must not be retried")
}

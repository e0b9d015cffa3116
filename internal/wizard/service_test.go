// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package wizard_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/core/asset"
	"github.com/facilia/facilia/internal/core/category"
	"github.com/facilia/facilia/internal/core/servicerequest"
	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/internal/wizard"
	"github.com/facilia/facilia/pkg/pointer"
)

// # Fakes

type fakeAssets struct {
	records map[string]*asset.Asset
}

func (fake *fakeAssets) Get(ctx context.Context, session cafm.Session, id string) (*asset.Asset, error) {
	record, found := fake.records[id]
	if !found {
		return nil, apperr.NotFound("Asset")
	}
	return record, nil
}

type fakeTaxonomy struct{}

func (fake *fakeTaxonomy) Taxonomy(ctx context.Context, session cafm.Session) ([]category.Category, error) {
	return []category.Category{
		{
			ID:    "plumbing",
			Label: category.Label{EN: "Plumbing"},
			Children: []category.Category{
				{ID: "leak", Label: category.Label{EN: "Leak"}},
				{ID: "blockage", Label: category.Label{EN: "Blockage"}},
			},
		},
		{ID: "other", Label: category.Label{EN: "Other"}},
	}, nil
}

// capturedImage is one image as the fake upstream drained it.
type capturedImage struct {
	filename string
	content  string
}

type fakeSubmitter struct {
	mu       sync.Mutex
	calls    int
	err      error
	captured servicerequest.Submission
	images   []capturedImage

	// started/release coordinate the concurrent-submit test.
	started chan struct{}
	release chan struct{}
}

func (fake *fakeSubmitter) Submit(ctx context.Context, session cafm.Session, submission servicerequest.Submission) (*servicerequest.ServiceRequest, error) {
	fake.mu.Lock()
	fake.calls++
	fake.captured = submission
	fake.images = nil
	for _, image := range submission.Images {
		content, _ := io.ReadAll(image.Reader)
		fake.images = append(fake.images, capturedImage{filename: image.Filename, content: string(content)})
	}
	fake.mu.Unlock()

	if fake.started != nil {
		fake.started <- struct{}{}
		<-fake.release
	}

	if fake.err != nil {
		return nil, fake.err
	}
	return &servicerequest.ServiceRequest{ID: "SR1", Number: "WO-1042", Status: "open"}, nil
}

func (fake *fakeSubmitter) callCount() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.calls
}

// # Helpers

var testSession = cafm.Session{Token: "t", TenantID: "acme"}

const testUser = "U1"

func newTestService(submitter *fakeSubmitter, assets *fakeAssets) (*wizard.Service, *wizard.Store) {
	if assets == nil {
		assets = &fakeAssets{records: map[string]*asset.Asset{}}
	}
	store := wizard.NewStore(45 * time.Minute)
	service := wizard.NewService(store, assets, &fakeTaxonomy{}, submitter, slog.Default())
	return service, store
}

// spooledFiles counts live wizard temp files, the ground truth for the
// release-exactly-once contract.
func spooledFiles(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "facilia-wizard-*"))
	require.NoError(t, err)
	return len(matches)
}

// draftToDetails drives a fresh draft to the details step.
func draftToDetails(t *testing.T, service *wizard.Service) string {
	t.Helper()
	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)
	draftID := result.Draft.ID

	_, err = service.SelectLocation(testSession, testUser, draftID, "L1")
	require.NoError(t, err)
	_, err = service.Advance(testSession, testUser, draftID)
	require.NoError(t, err)
	_, err = service.SelectCategory(context.Background(), testSession, testUser, draftID, "plumbing", "leak")
	require.NoError(t, err)
	return draftID
}

func addImage(t *testing.T, service *wizard.Service, draftID, filename, content string) *wizard.DraftView {
	t.Helper()
	view, err := service.AddImage(testSession, testUser, draftID, filename, "image/jpeg", strings.NewReader(content))
	require.NoError(t, err)
	return view
}

// # Begin

/*
TestService_Begin_Unseeded starts on step 1 with nothing answered.
*/
func TestService_Begin_Unseeded(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)

	assert.Equal(t, wizard.StepLocation, result.Draft.Step)
	assert.Equal(t, wizard.ResolutionNone, result.AssetResolution)
	assert.Nil(t, result.Draft.LocationID)
	assert.Nil(t, result.Draft.AssetID)
}

/*
TestService_Begin_LocationSeedSkipsStepOne: a direct location seed is
authoritative, so the draft starts on the category step.
*/
func TestService_Begin_LocationSeedSkipsStepOne(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{LocationID: "L3"})
	require.NoError(t, err)

	assert.Equal(t, wizard.StepCategory, result.Draft.Step)
	assert.Equal(t, "L3", pointer.Val(result.Draft.LocationID))
	assert.Equal(t, wizard.ResolutionNone, result.AssetResolution)
}

/*
TestService_Begin_AssetSeedResolved: a scanned asset resolves its owning
location, answering step 1 and starting the draft on the category step.
*/
func TestService_Begin_AssetSeedResolved(t *testing.T) {
	assets := &fakeAssets{records: map[string]*asset.Asset{
		"A1": {ID: "A1", Name: "Chiller", LocationID: pointer.To("L7")},
	}}
	service, _ := newTestService(&fakeSubmitter{}, assets)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{AssetID: "A1"})
	require.NoError(t, err)

	assert.Equal(t, wizard.ResolutionResolved, result.AssetResolution)
	assert.Equal(t, wizard.StepCategory, result.Draft.Step)
	assert.Equal(t, "L7", pointer.Val(result.Draft.LocationID))
	assert.Equal(t, "A1", pointer.Val(result.Draft.AssetID))
}

/*
TestService_Begin_BothSeeds: a direct location seed is authoritative even
when an asset seed rides along. The asset attaches only when it resolves
inside that location; otherwise the location survives and the draft still
starts on the category step.
*/
func TestService_Begin_BothSeeds(t *testing.T) {
	assets := &fakeAssets{records: map[string]*asset.Asset{
		"A1":        {ID: "A1", Name: "Chiller", LocationID: pointer.To("L9")},
		"elsewhere": {ID: "elsewhere", Name: "Boiler", LocationID: pointer.To("L2")},
	}}
	service, _ := newTestService(&fakeSubmitter{}, assets)

	testCases := []struct {
		name           string
		assetID        string
		wantResolution wizard.AssetResolution
		wantAssetID    *string
	}{
		{name: "asset inside the seeded location", assetID: "A1", wantResolution: wizard.ResolutionResolved, wantAssetID: pointer.To("A1")},
		{name: "asset lookup fails", assetID: "missing", wantResolution: wizard.ResolutionManualRequired},
		{name: "asset in another location", assetID: "elsewhere", wantResolution: wizard.ResolutionManualRequired},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{
				LocationID: "L9",
				AssetID:    testCase.assetID,
			})
			require.NoError(t, err)

			require.NotNil(t, result.Draft.LocationID)
			assert.Equal(t, "L9", pointer.Val(result.Draft.LocationID))
			assert.Equal(t, wizard.StepCategory, result.Draft.Step)
			assert.Equal(t, testCase.wantResolution, result.AssetResolution)
			assert.Equal(t, testCase.wantAssetID, result.Draft.AssetID)
		})
	}
}

/*
TestService_Begin_AssetSeedFallsBack: a failed lookup, or an asset without a
location, degrades to manual selection. The begin call itself never fails.
*/
func TestService_Begin_AssetSeedFallsBack(t *testing.T) {
	assets := &fakeAssets{records: map[string]*asset.Asset{
		"floating": {ID: "floating", Name: "Portable Pump"},
	}}
	service, _ := newTestService(&fakeSubmitter{}, assets)

	testCases := []struct {
		name    string
		assetID string
	}{
		{name: "unknown asset", assetID: "nope"},
		{name: "asset without a location", assetID: "floating"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{AssetID: testCase.assetID})
			require.NoError(t, err)

			assert.Equal(t, wizard.ResolutionManualRequired, result.AssetResolution)
			assert.Equal(t, wizard.StepLocation, result.Draft.Step)
			assert.Nil(t, result.Draft.LocationID)
			assert.Nil(t, result.Draft.AssetID)
		})
	}
}

// # Selection

/*
TestService_SelectAsset_MustMatchLocation rejects an asset that sits
somewhere other than the draft's chosen location.
*/
func TestService_SelectAsset_MustMatchLocation(t *testing.T) {
	assets := &fakeAssets{records: map[string]*asset.Asset{
		"A1": {ID: "A1", Name: "Chiller", LocationID: pointer.To("L1")},
		"A9": {ID: "A9", Name: "Boiler", LocationID: pointer.To("L9")},
	}}
	service, _ := newTestService(&fakeSubmitter{}, assets)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)
	draftID := result.Draft.ID

	_, err = service.SelectLocation(testSession, testUser, draftID, "L1")
	require.NoError(t, err)

	view, err := service.SelectAsset(context.Background(), testSession, testUser, draftID, "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", pointer.Val(view.AssetID))

	_, err = service.SelectAsset(context.Background(), testSession, testUser, draftID, "A9")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 422, appError.HTTPStatus)
}

/*
TestService_SelectCategory_TerminalParentCollapses: picking a childless
parent selects it as the category directly.
*/
func TestService_SelectCategory_TerminalParentCollapses(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)
	draftID := result.Draft.ID

	_, err = service.SelectLocation(testSession, testUser, draftID, "L1")
	require.NoError(t, err)
	_, err = service.Advance(testSession, testUser, draftID)
	require.NoError(t, err)

	view, err := service.SelectCategory(context.Background(), testSession, testUser, draftID, "other", "")
	require.NoError(t, err)

	assert.Equal(t, "other", pointer.Val(view.ParentCategoryID))
	assert.Equal(t, "other", pointer.Val(view.CategoryID))
	assert.Equal(t, wizard.StepDetails, view.Step)
}

/*
TestService_SelectCategory_RejectsForeignChild enforces the
descendant-or-self pairing against the live taxonomy.
*/
func TestService_SelectCategory_RejectsForeignChild(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)
	draftID := result.Draft.ID

	_, err = service.SelectLocation(testSession, testUser, draftID, "L1")
	require.NoError(t, err)
	_, err = service.Advance(testSession, testUser, draftID)
	require.NoError(t, err)

	_, err = service.SelectCategory(context.Background(), testSession, testUser, draftID, "plumbing", "other")
	require.Error(t, err)

	_, err = service.SelectCategory(context.Background(), testSession, testUser, draftID, "nope", "leak")
	require.Error(t, err)
}

// # Images

/*
TestService_AddImage_CapSilentDrop: the sixth upload is not an error. Its
spooled bytes are released immediately and the view still shows five.
*/
func TestService_AddImage_CapSilentDrop(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)
	draftID := draftToDetails(t, service)

	baseline := spooledFiles(t)

	for index := 0; index < wizard.MaxImages; index++ {
		addImage(t, service, draftID, "photo.jpg", "jpeg")
	}
	assert.Equal(t, baseline+wizard.MaxImages, spooledFiles(t))

	view := addImage(t, service, draftID, "one-too-many.jpg", "jpeg")

	assert.Len(t, view.Images, wizard.MaxImages)
	assert.Equal(t, baseline+wizard.MaxImages, spooledFiles(t), "the dropped upload must not leak a temp file")

	require.NoError(t, service.Discard(testSession, testUser, draftID))
	assert.Equal(t, baseline, spooledFiles(t), "discard releases everything")
}

/*
TestService_AddImage_RejectsNonImages: only image/* uploads are accepted.
*/
func TestService_AddImage_RejectsNonImages(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)
	draftID := draftToDetails(t, service)

	baseline := spooledFiles(t)

	_, err := service.AddImage(testSession, testUser, draftID, "notes.pdf", "application/pdf", strings.NewReader("pdf"))
	require.Error(t, err)
	assert.Equal(t, baseline, spooledFiles(t))
}

/*
TestService_RemoveImage releases the spooled file and updates the view.
*/
func TestService_RemoveImage(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)
	draftID := draftToDetails(t, service)

	baseline := spooledFiles(t)
	view := addImage(t, service, draftID, "photo.jpg", "jpeg")
	require.Len(t, view.Images, 1)

	view, err := service.RemoveImage(testSession, testUser, draftID, view.Images[0].ID)
	require.NoError(t, err)

	assert.Empty(t, view.Images)
	assert.Equal(t, baseline, spooledFiles(t))

	_, err = service.RemoveImage(testSession, testUser, draftID, "nope")
	require.Error(t, err)
}

// # Submission

/*
TestService_Submit_HappyPath: one upstream call carrying everything, then
the draft is gone and every temp file released.
*/
func TestService_Submit_HappyPath(t *testing.T) {
	submitter := &fakeSubmitter{}
	service, store := newTestService(submitter, nil)
	draftID := draftToDetails(t, service)

	baseline := spooledFiles(t)
	_, err := service.SetDescription(testSession, testUser, draftID, "Water under the sink")
	require.NoError(t, err)
	addImage(t, service, draftID, "photo-1.jpg", "jpeg-1")
	addImage(t, service, draftID, "photo-2.jpg", "jpeg-2")

	record, err := service.Submit(context.Background(), testSession, testUser, draftID)
	require.NoError(t, err)

	assert.Equal(t, "SR1", record.ID)
	assert.Equal(t, 1, submitter.callCount())
	assert.Equal(t, "L1", submitter.captured.LocationID)
	assert.Equal(t, "leak", submitter.captured.CategoryID)
	assert.Equal(t, "Water under the sink", submitter.captured.Description)
	assert.Equal(t, []capturedImage{
		{filename: "photo-1.jpg", content: "jpeg-1"},
		{filename: "photo-2.jpg", content: "jpeg-2"},
	}, submitter.images, "images keep their order and bytes")

	assert.Equal(t, baseline, spooledFiles(t), "success releases every attachment")
	assert.Equal(t, 0, store.Len())

	_, err = service.Get(testSession, testUser, draftID)
	require.Error(t, err, "the draft is gone after success")
}

/*
TestService_Submit_RequiresCompleteDraft: missing answers refuse the submit
without touching the upstream.
*/
func TestService_Submit_RequiresCompleteDraft(t *testing.T) {
	submitter := &fakeSubmitter{}
	service, _ := newTestService(submitter, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), testSession, testUser, result.Draft.ID)
	require.Error(t, err)
	assert.Equal(t, 0, submitter.callCount())
}

/*
TestService_Submit_FailurePreservesDraft: the draft survives a rejected
submission byte for byte, images included, and submit is re-armed.
*/
func TestService_Submit_FailurePreservesDraft(t *testing.T) {
	submitter := &fakeSubmitter{err: apperr.Unprocessable("Category is no longer available")}
	service, _ := newTestService(submitter, nil)
	draftID := draftToDetails(t, service)

	_, err := service.SetDescription(testSession, testUser, draftID, "Still broken")
	require.NoError(t, err)
	addImage(t, service, draftID, "photo.jpg", "jpeg")

	_, err = service.Submit(context.Background(), testSession, testUser, draftID)
	require.Error(t, err)

	view, err := service.Get(testSession, testUser, draftID)
	require.NoError(t, err)
	assert.Equal(t, "L1", pointer.Val(view.LocationID))
	assert.Equal(t, "leak", pointer.Val(view.CategoryID))
	assert.Equal(t, "Still broken", view.Description)
	require.Len(t, view.Images, 1, "images survive a failed submission")

	// Second attempt goes through: submit is re-armed, nothing was retried
	// behind the user's back.
	submitter.err = nil
	record, err := service.Submit(context.Background(), testSession, testUser, draftID)
	require.NoError(t, err)
	assert.Equal(t, "SR1", record.ID)
	assert.Equal(t, 2, submitter.callCount())
}

/*
TestService_Submit_SingleInFlight: a second submit while one is running is
refused with a conflict and never reaches the upstream.
*/
func TestService_Submit_SingleInFlight(t *testing.T) {
	submitter := &fakeSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	service, _ := newTestService(submitter, nil)
	draftID := draftToDetails(t, service)

	firstDone := make(chan error, 1)
	go func() {
		_, err := service.Submit(context.Background(), testSession, testUser, draftID)
		firstDone <- err
	}()

	<-submitter.started

	_, err := service.Submit(context.Background(), testSession, testUser, draftID)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 409, appError.HTTPStatus)

	close(submitter.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, submitter.callCount(), "only the first submit reaches the upstream")
}

// # Ownership and Expiry

/*
TestService_OwnershipIsOpaque: another user's or tenant's draft id behaves
exactly like an unknown one.
*/
func TestService_OwnershipIsOpaque(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)

	result, err := service.Begin(context.Background(), testSession, testUser, wizard.BeginInput{})
	require.NoError(t, err)
	draftID := result.Draft.ID

	_, err = service.Get(testSession, "someone-else", draftID)
	require.Error(t, err)

	_, err = service.Get(cafm.Session{TenantID: "globex"}, testUser, draftID)
	require.Error(t, err)
}

/*
TestService_RejectsMalformedIDs: path identifiers are screened as UUIDs
before any draft lookup happens.
*/
func TestService_RejectsMalformedIDs(t *testing.T) {
	service, _ := newTestService(&fakeSubmitter{}, nil)
	draftID := draftToDetails(t, service)

	_, err := service.Get(testSession, testUser, "not-a-uuid")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	_, err = service.Submit(context.Background(), testSession, testUser, "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.RemoveImage(testSession, testUser, draftID, "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestStore_Sweep reaps idle drafts and releases their spooled images.
*/
func TestStore_Sweep(t *testing.T) {
	store := wizard.NewStore(45 * time.Minute)

	attachment, err := wizard.NewAttachment(strings.NewReader("jpeg"), "photo.jpg", "image/jpeg")
	require.NoError(t, err)

	stale := &wizard.Draft{
		ID: "stale", TenantID: "acme", UserID: testUser,
		Step:         wizard.StepDetails,
		Attachments:  []*wizard.Attachment{attachment},
		LastActivity: time.Now().Add(-2 * time.Hour),
	}
	fresh := &wizard.Draft{
		ID: "fresh", TenantID: "acme", UserID: testUser,
		Step:         wizard.StepLocation,
		LastActivity: time.Now(),
	}
	store.Put(stale)
	store.Put(fresh)

	removed := store.Sweep(time.Now())

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
	assert.True(t, attachment.Released(), "the sweep must release spooled images")
}

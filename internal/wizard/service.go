// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package wizard

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/core/asset"
	"github.com/facilia/facilia/internal/core/category"
	"github.com/facilia/facilia/internal/core/servicerequest"
	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/internal/platform/validate"
	"github.com/facilia/facilia/pkg/pointer"
	"github.com/facilia/facilia/pkg/uuidv7"
)

// maxDescriptionLength bounds the free-text note.
const maxDescriptionLength = 2000

// AssetResolver resolves asset records for seeding and selection checks.
type AssetResolver interface {
	Get(ctx context.Context, session cafm.Session, id string) (*asset.Asset, error)
}

// TaxonomyProvider serves the category forest for selection validation.
type TaxonomyProvider interface {
	Taxonomy(ctx context.Context, session cafm.Session) ([]category.Category, error)
}

// Submitter performs the single creating POST.
type Submitter interface {
	Submit(ctx context.Context, session cafm.Session, submission servicerequest.Submission) (*servicerequest.ServiceRequest, error)
}

// AssetResolution reports how a begin-with-asset seed played out.
type AssetResolution string

const (
	// ResolutionNone means no asset seed was given.
	ResolutionNone AssetResolution = "none"

	// ResolutionResolved means the asset and its location pre-filled step 1.
	ResolutionResolved AssetResolution = "resolved"

	// ResolutionManualRequired means the asset could not seed the draft
	// (lookup failed, the asset has no location, or it sits outside a
	// directly seeded location); the user picks manually.
	ResolutionManualRequired AssetResolution = "manual_required"
)

// AttachmentView is the client-facing projection of one held image.
type AttachmentView struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	PreviewURL string `json:"preview_url"`
}

// DraftView is the client-facing projection of a draft.
type DraftView struct {
	ID               string           `json:"id"`
	Step             Step             `json:"step"`
	LocationID       *string          `json:"location_id"`
	AssetID          *string          `json:"asset_id"`
	AssetSkipped     bool             `json:"asset_skipped"`
	ParentCategoryID *string          `json:"parent_category_id"`
	CategoryID       *string          `json:"category_id"`
	Description      string           `json:"description"`
	Images           []AttachmentView `json:"images"`
}

// BeginResult is the response of the begin operation.
type BeginResult struct {
	Draft           DraftView       `json:"draft"`
	AssetResolution AssetResolution `json:"asset_resolution"`
}

// BeginInput seeds a new draft. Both fields are optional; an asset seed is
// how a scanned equipment code deep-links into the flow.
type BeginInput struct {
	LocationID string
	AssetID    string
}

// Service is the wizard container: the exclusive owner of draft state.
type Service struct {
	store      *Store
	assets     AssetResolver
	categories TaxonomyProvider
	submitter  Submitter
	logger     *slog.Logger
}

// NewService wires the wizard container.
func NewService(store *Store, assets AssetResolver, categories TaxonomyProvider, submitter Submitter, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		assets:     assets,
		categories: categories,
		submitter:  submitter,
		logger:     logger,
	}
}

// # Lifecycle

// Begin creates a draft for the caller, optionally seeded.
//
// A direct location seed is authoritative: step 1 is already answered and
// the draft starts on the category step, regardless of what becomes of any
// asset seed. An asset seed is resolved against the system of record during
// this call; on success the asset answers step 1 (its owning location, when
// no location was given directly). When resolution fails, the asset has no
// owning location, or it sits outside the directly supplied location, the
// asset pick degrades to manual selection, reported in the result — a
// failed resolution never fails the call and never discards a direct seed.
func (service *Service) Begin(ctx context.Context, session cafm.Session, userID string, input BeginInput) (*BeginResult, error) {
	draft := &Draft{
		ID:       uuidv7.Must(),
		TenantID: session.TenantID,
		UserID:   userID,
		Step:     StepLocation,
	}
	draft.touch()

	resolution := ResolutionNone

	if input.LocationID != "" {
		draft.LocationID = &input.LocationID
		draft.Step = StepCategory
	}

	if input.AssetID != "" {
		record, err := service.assets.Get(ctx, session, input.AssetID)
		switch {
		case err != nil:
			resolution = ResolutionManualRequired
			service.logger.Warn("wizard_asset_seed_failed",
				slog.String("asset_id", input.AssetID),
				slog.Any("error", err),
			)
		case record.LocationID == nil:
			resolution = ResolutionManualRequired
		case draft.LocationID != nil && *record.LocationID != *draft.LocationID:
			// The direct location seed wins over a mismatched asset.
			resolution = ResolutionManualRequired
		default:
			draft.LocationID = record.LocationID
			draft.AssetID = &record.ID
			draft.Step = StepCategory
			resolution = ResolutionResolved
		}
	}

	service.store.Put(draft)

	service.logger.Info("wizard_draft_started",
		slog.String("draft_id", draft.ID),
		slog.String("tenant_id", draft.TenantID),
		slog.String("resolution", string(resolution)),
	)

	return &BeginResult{Draft: viewOf(draft), AssetResolution: resolution}, nil
}

// Get returns the current draft state.
func (service *Service) Get(session cafm.Session, userID, draftID string) (*DraftView, error) {
	return service.update(session, userID, draftID, func(draft *Draft) error {
		draft.touch()
		return nil
	})
}

// Discard removes the draft and releases every spooled image.
func (service *Service) Discard(session cafm.Session, userID, draftID string) error {
	if err := requireID("draft_id", draftID); err != nil {
		return err
	}

	draft, err := service.store.Take(draftID, session.TenantID, userID)
	if err != nil {
		return err
	}
	if draft.submitting {
		// Put it back untouched; the in-flight submission owns it now.
		service.store.Put(draft)
		return apperr.Conflict("A submission is already in progress for this draft")
	}

	draft.ReleaseAll()
	service.logger.Info("wizard_draft_discarded", slog.String("draft_id", draftID))
	return nil
}

// # Step 1: Location and Asset

// SelectLocation answers step 1, clearing any asset pick on change.
func (service *Service) SelectLocation(session cafm.Session, userID, draftID, locationID string) (*DraftView, error) {
	v := &validate.Validator{}
	if err := v.Required("location_id", locationID).Err(); err != nil {
		return nil, err
	}

	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.SelectLocation(locationID)
	})
}

// SelectAsset records a concrete asset pick after verifying, against the
// system of record, that the asset actually sits in the draft's location.
func (service *Service) SelectAsset(ctx context.Context, session cafm.Session, userID, draftID, assetID string) (*DraftView, error) {
	v := &validate.Validator{}
	if err := v.Required("asset_id", assetID).Err(); err != nil {
		return nil, err
	}

	record, err := service.assets.Get(ctx, session, assetID)
	if err != nil {
		return nil, err
	}

	return service.update(session, userID, draftID, func(draft *Draft) error {
		if draft.LocationID == nil {
			return apperr.Conflict("Select a location before choosing an asset")
		}
		if record.LocationID == nil || *record.LocationID != *draft.LocationID {
			return apperr.Unprocessable("Asset does not belong to the selected location")
		}
		return draft.SelectAsset(assetID)
	})
}

// SkipAsset records the explicit "no specific asset" answer.
func (service *Service) SkipAsset(session cafm.Session, userID, draftID string) (*DraftView, error) {
	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.SkipAsset()
	})
}

// # Navigation

// Advance moves the draft forward one step.
func (service *Service) Advance(session cafm.Session, userID, draftID string) (*DraftView, error) {
	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.Advance()
	})
}

// Back moves the draft back one step.
func (service *Service) Back(session cafm.Session, userID, draftID string) (*DraftView, error) {
	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.Back()
	})
}

// # Step 2: Category

// SelectCategory validates the pick against the live taxonomy and advances
// to the details step.
//
// A terminal parent (no children) collapses to itself: the client sends only
// parent_id and the parent becomes the category. Otherwise category_id is
// required and must be one of the parent's children.
func (service *Service) SelectCategory(ctx context.Context, session cafm.Session, userID, draftID, parentID, categoryID string) (*DraftView, error) {
	v := &validate.Validator{}
	if err := v.Required("parent_id", parentID).Err(); err != nil {
		return nil, err
	}

	forest, err := service.categories.Taxonomy(ctx, session)
	if err != nil {
		return nil, err
	}

	parent := category.Find(forest, parentID)
	if parent == nil {
		return nil, apperr.Unprocessable("Unknown category")
	}

	if parent.Terminal() {
		if categoryID != "" && categoryID != parentID {
			return nil, apperr.Unprocessable("Category does not belong to the selected group")
		}
		categoryID = parentID
	} else {
		if categoryID == "" {
			return nil, validate.RequiredError("category_id", "This field is required")
		}
		if !category.IsDescendantOrSelf(forest, parentID, categoryID) {
			return nil, apperr.Unprocessable("Category does not belong to the selected group")
		}
	}

	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.SetCategory(parentID, categoryID)
	})
}

// # Step 3: Details

// SetDescription replaces the free-text note.
func (service *Service) SetDescription(session cafm.Session, userID, draftID, text string) (*DraftView, error) {
	v := &validate.Validator{}
	if err := v.MaxLen("description", text, maxDescriptionLength).Err(); err != nil {
		return nil, err
	}

	return service.update(session, userID, draftID, func(draft *Draft) error {
		return draft.SetDescription(text)
	})
}

// AddImage spools the upload and attaches it if the cap allows.
//
// Past the cap the upload is dropped without an error: the spooled file is
// released on the spot and the returned view simply still shows five
// images. The client renders what the view says, so nothing appears.
func (service *Service) AddImage(session cafm.Session, userID, draftID, filename, contentType string, content io.Reader) (*DraftView, error) {
	if err := requireID("draft_id", draftID); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Unprocessable("Only image attachments are accepted")
	}

	attachment, err := NewAttachment(content, filename, contentType)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	view, err := service.update(session, userID, draftID, func(draft *Draft) error {
		kept, err := draft.AddAttachment(attachment)
		if err != nil {
			return err
		}
		if !kept {
			attachment.Release()
		}
		return nil
	})
	if err != nil {
		attachment.Release()
		return nil, err
	}
	return view, nil
}

// RemoveImage detaches an image and releases its spooled bytes.
func (service *Service) RemoveImage(session cafm.Session, userID, draftID, imageID string) (*DraftView, error) {
	if err := requireID("image_id", imageID); err != nil {
		return nil, err
	}

	var removed *Attachment
	view, err := service.update(session, userID, draftID, func(draft *Draft) error {
		var err error
		removed, err = draft.RemoveAttachment(imageID)
		if err != nil {
			return err
		}
		if removed == nil {
			return apperr.NotFound("Image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	removed.Release()
	return view, nil
}

// OpenImage opens a held image for the preview endpoint. The caller closes
// the returned file.
func (service *Service) OpenImage(session cafm.Session, userID, draftID, imageID string) (*os.File, *Attachment, error) {
	if err := requireID("draft_id", draftID); err != nil {
		return nil, nil, err
	}
	if err := requireID("image_id", imageID); err != nil {
		return nil, nil, err
	}

	var attachment *Attachment
	err := service.store.Update(draftID, session.TenantID, userID, func(draft *Draft) error {
		attachment = draft.FindAttachment(imageID)
		if attachment == nil {
			return apperr.NotFound("Image")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	file, err := attachment.Open()
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return file, attachment, nil
}

// # Submission

// Submit performs the draft's single atomic creating POST.
//
// The draft is frozen for the duration: a second submit, or any mutation,
// is refused with a conflict and causes no second upstream call. On success
// the draft is gone and its images released; on failure the draft survives
// byte for byte, images included, and submit is re-armed.
func (service *Service) Submit(ctx context.Context, session cafm.Session, userID, draftID string) (*servicerequest.ServiceRequest, error) {
	if err := requireID("draft_id", draftID); err != nil {
		return nil, err
	}

	var submission servicerequest.Submission
	var open []*os.File

	err := service.store.Update(draftID, session.TenantID, userID, func(draft *Draft) error {
		if draft.submitting {
			return apperr.Conflict("A submission is already in progress for this draft")
		}
		if draft.LocationID == nil {
			return apperr.Unprocessable("A location is required before submitting")
		}
		if draft.CategoryID == nil {
			return apperr.Unprocessable("A category is required before submitting")
		}

		submission = servicerequest.Submission{
			LocationID:  *draft.LocationID,
			AssetID:     draft.AssetID,
			CategoryID:  *draft.CategoryID,
			Description: draft.Description,
		}
		for _, attachment := range draft.Attachments {
			file, err := attachment.Open()
			if err != nil {
				closeAll(open)
				return apperr.Internal(err)
			}
			open = append(open, file)
			submission.Images = append(submission.Images, servicerequest.Image{
				Filename: attachment.Filename,
				Reader:   file,
			})
		}

		draft.submitting = true
		draft.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	record, submitErr := service.submitter.Submit(ctx, session, submission)
	closeAll(open)

	if submitErr != nil {
		// Re-arm the draft untouched; the user decides whether to retry.
		_ = service.store.Update(draftID, session.TenantID, userID, func(draft *Draft) error {
			draft.submitting = false
			draft.touch()
			return nil
		})
		return nil, submitErr
	}

	if draft, takeErr := service.store.Take(draftID, session.TenantID, userID); takeErr == nil {
		draft.ReleaseAll()
	}

	service.logger.Info("wizard_draft_submitted",
		slog.String("draft_id", draftID),
		slog.String("service_request_id", record.ID),
	)
	return record, nil
}

// # Internals

// requireID screens a path identifier before it reaches the store.
func requireID(field, value string) error {
	v := &validate.Validator{}
	return v.UUID(field, value).Err()
}

// update is the shared mutate-and-project helper.
func (service *Service) update(session cafm.Session, userID, draftID string, fn func(*Draft) error) (*DraftView, error) {
	if err := requireID("draft_id", draftID); err != nil {
		return nil, err
	}

	var view DraftView
	err := service.store.Update(draftID, session.TenantID, userID, func(draft *Draft) error {
		if err := fn(draft); err != nil {
			return err
		}
		view = viewOf(draft)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// viewOf projects a draft for the client. Caller holds the store lock.
func viewOf(draft *Draft) DraftView {
	images := make([]AttachmentView, 0, len(draft.Attachments))
	for _, attachment := range draft.Attachments {
		images = append(images, AttachmentView{
			ID:         attachment.ID,
			Filename:   attachment.Filename,
			Size:       attachment.Size,
			PreviewURL: "/api/v1/wizard/" + draft.ID + "/images/" + attachment.ID,
		})
	}

	return DraftView{
		ID:               draft.ID,
		Step:             draft.Step,
		LocationID:       copyOptional(draft.LocationID),
		AssetID:          copyOptional(draft.AssetID),
		AssetSkipped:     draft.AssetSkipped,
		ParentCategoryID: copyOptional(draft.ParentCategoryID),
		CategoryID:       copyOptional(draft.CategoryID),
		Description:      draft.Description,
		Images:           images,
	}
}

// copyOptional detaches an optional field from the locked draft.
func copyOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(*value)
}

// closeAll closes opened attachment readers.
func closeAll(files []*os.File) {
	for _, file := range files {
		_ = file.Close()
	}
}

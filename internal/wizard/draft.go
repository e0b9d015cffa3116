// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package wizard owns the service-request creation flow for the mobile client.

A draft walks three steps: where (location, optionally an asset), what
(issue category), and details (description, up to five photos). The gateway
is the exclusive owner of draft state; the client drives it only through the
named transition operations exposed by the HTTP surface. Nothing here is
durably persisted: an abandoned draft ages out and its spooled images are
deleted with it.

# Invariants

  - An asset selection never survives a location change. The asset belongs
    to the location; changing the answer to "where" invalidates the answer
    to "which equipment".
  - The selected category is always the selected parent or one of its
    children. A parent without children collapses to itself.
  - A draft holds at most MaxImages attachments. Additions past the cap are
    dropped and their spooled bytes released immediately.
  - While a submission is in flight the draft is frozen: every mutating
    operation, including a second submit, is refused.
*/
package wizard

import (
	"time"

	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/pkg/pointer"
)

// MaxImages is the attachment cap per draft.
const MaxImages = 5

// Step identifies the wizard screen the draft is on.
type Step string

const (
	StepLocation Step = "location"
	StepCategory Step = "category"
	StepDetails  Step = "details"
)

// Draft is one in-progress service request. All fields are guarded by the
// owning store entry's lock; methods assume the caller holds it.
type Draft struct {
	ID       string
	TenantID string
	UserID   string

	Step Step

	// LocationID is the chosen location; nil until step 1 is answered.
	LocationID *string

	// AssetID and AssetSkipped encode three states: not yet chosen
	// (nil, false), explicitly "no specific asset" (nil, true), and a
	// concrete pick (non-nil, false).
	AssetID      *string
	AssetSkipped bool

	ParentCategoryID *string
	CategoryID       *string

	Description string
	Attachments []*Attachment

	LastActivity time.Time

	// submitting marks an upstream submission in flight.
	submitting bool
}

// touch records activity for the idle sweep.
func (draft *Draft) touch() {
	draft.LastActivity = time.Now()
}

// guardMutable refuses changes while a submission is running.
func (draft *Draft) guardMutable() error {
	if draft.submitting {
		return apperr.Conflict("A submission is already in progress for this draft")
	}
	return nil
}

// SelectLocation answers step 1. Re-selecting a different location clears
// any asset choice, explicit or concrete; re-selecting the same one is a
// no-op for the asset state.
func (draft *Draft) SelectLocation(locationID string) error {
	if err := draft.guardMutable(); err != nil {
		return err
	}

	if !pointer.Equal(draft.LocationID, &locationID) {
		draft.AssetID = nil
		draft.AssetSkipped = false
	}
	draft.LocationID = &locationID
	draft.touch()
	return nil
}

// SelectAsset records a concrete asset pick. A location must be chosen first.
func (draft *Draft) SelectAsset(assetID string) error {
	if err := draft.guardMutable(); err != nil {
		return err
	}
	if draft.LocationID == nil {
		return apperr.Conflict("Select a location before choosing an asset")
	}

	draft.AssetID = &assetID
	draft.AssetSkipped = false
	draft.touch()
	return nil
}

// SkipAsset records the explicit "no specific asset" answer, which is a
// completed choice, unlike never having answered.
func (draft *Draft) SkipAsset() error {
	if err := draft.guardMutable(); err != nil {
		return err
	}
	if draft.LocationID == nil {
		return apperr.Conflict("Select a location before skipping the asset")
	}

	draft.AssetID = nil
	draft.AssetSkipped = true
	draft.touch()
	return nil
}

// Advance moves from the location step to the category step.
func (draft *Draft) Advance() error {
	if err := draft.guardMutable(); err != nil {
		return err
	}

	switch draft.Step {
	case StepLocation:
		if draft.LocationID == nil {
			return apperr.Conflict("Select a location before continuing")
		}
		draft.Step = StepCategory
	case StepCategory:
		if draft.CategoryID == nil {
			return apperr.Conflict("Select a category before continuing")
		}
		draft.Step = StepDetails
	default:
		return apperr.Conflict("Already on the final step")
	}
	draft.touch()
	return nil
}

// Back retreats one step. Leaving the category step backwards resets the
// category selection entirely; the next visit starts from a clean picker.
func (draft *Draft) Back() error {
	if err := draft.guardMutable(); err != nil {
		return err
	}

	switch draft.Step {
	case StepDetails:
		draft.Step = StepCategory
	case StepCategory:
		draft.ParentCategoryID = nil
		draft.CategoryID = nil
		draft.Step = StepLocation
	default:
		return apperr.Conflict("Already on the first step")
	}
	draft.touch()
	return nil
}

// SetCategory records a validated parent/category pair and advances to the
// details step. Validation against the live taxonomy happens in the service;
// this method only enforces step ordering.
func (draft *Draft) SetCategory(parentID, categoryID string) error {
	if err := draft.guardMutable(); err != nil {
		return err
	}
	if draft.Step != StepCategory {
		return apperr.Conflict("Category selection belongs to the category step")
	}

	draft.ParentCategoryID = &parentID
	draft.CategoryID = &categoryID
	draft.Step = StepDetails
	draft.touch()
	return nil
}

// SetDescription replaces the free-text note.
func (draft *Draft) SetDescription(text string) error {
	if err := draft.guardMutable(); err != nil {
		return err
	}
	if draft.Step != StepDetails {
		return apperr.Conflict("Description belongs to the details step")
	}

	draft.Description = text
	draft.touch()
	return nil
}

// AddAttachment appends an attachment if the cap allows it. The boolean
// reports whether the attachment was kept; the caller releases it when not.
func (draft *Draft) AddAttachment(attachment *Attachment) (bool, error) {
	if err := draft.guardMutable(); err != nil {
		return false, err
	}
	if draft.Step != StepDetails {
		return false, apperr.Conflict("Images belong to the details step")
	}

	draft.touch()
	if len(draft.Attachments) >= MaxImages {
		return false, nil
	}
	draft.Attachments = append(draft.Attachments, attachment)
	return true, nil
}

// RemoveAttachment detaches and returns the attachment with the given id,
// or nil when the draft holds no such image. Releasing is the caller's job.
func (draft *Draft) RemoveAttachment(attachmentID string) (*Attachment, error) {
	if err := draft.guardMutable(); err != nil {
		return nil, err
	}

	for index, attachment := range draft.Attachments {
		if attachment.ID == attachmentID {
			draft.Attachments = append(draft.Attachments[:index], draft.Attachments[index+1:]...)
			draft.touch()
			return attachment, nil
		}
	}
	return nil, nil
}

// FindAttachment returns the attachment with the given id without detaching it.
func (draft *Draft) FindAttachment(attachmentID string) *Attachment {
	for _, attachment := range draft.Attachments {
		if attachment.ID == attachmentID {
			return attachment
		}
	}
	return nil
}

// ReleaseAll releases every attachment. Used on discard, expiry, and after
// a successful submission.
func (draft *Draft) ReleaseAll() {
	for _, attachment := range draft.Attachments {
		attachment.Release()
	}
}

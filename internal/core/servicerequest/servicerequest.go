// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package servicerequest models the work-order record the wizard ultimately
creates, and the single-shot multipart submission that creates it.

Creation is atomic from the gateway's point of view: exactly one upstream
POST carries the classification fields and every image, and it either
produces a complete record or fails as a whole. There is no partial create
and no automatic retry.
*/
package servicerequest

import (
	"io"
	"time"
)

// ServiceRequest is the created work-order record as served by the upstream.
type ServiceRequest struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Status      string    `json:"status"`
	LocationID  string    `json:"location_id"`
	AssetID     *string   `json:"asset_id,omitempty"`
	CategoryID  string    `json:"category_id"`
	Description string    `json:"description,omitempty"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image is one attachment in a submission, in user-chosen order.
type Image struct {
	Filename string
	Reader   io.Reader
}

// Submission is everything a complete wizard draft contributes to the
// creating POST.
type Submission struct {
	LocationID  string
	AssetID     *string
	CategoryID  string
	Description string
	Images      []Image
}

// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package web

import (
	"fmt"

	"github.com/tomtom215/mediashelf/internal/models"
)

// FormMode is either CreateMode or EditMode.
type FormMode interface {
	formMode()
}

// CreateMode adds a new record.
type CreateMode struct{}

// EditMode updates the record with ID.
type EditMode struct {
	ID int64
}

func (CreateMode) formMode() {}
func (EditMode) formMode()   {}

// Form is everything a management form needs that depends on its mode.
type Form struct {
	Kind          models.Kind
	Mode          FormMode
	Heading       string
	Submit        string
	Action        string
	FilesRequired bool
	Editing       bool
}

// NewForm derives the form presentation for kind in mode.
func NewForm(kind models.Kind, mode FormMode) Form {
	noun := kind.Singular()
	f := Form{Kind: kind, Mode: mode}

	switch m := mode.(type) {
	case EditMode:
		f.Heading = "Edit " + noun
		f.Submit = "Update " + noun
		f.Action = fmt.Sprintf("/content/%s/%d", kind, m.ID)
		f.Editing = true
	default:
		f.Heading = "Add " + noun
		f.Submit = "Add " + noun
		f.Action = "/content/" + string(kind)
		// A new clip needs its video. Edits keep the stored files.
		f.FilesRequired = kind == models.KindClips
	}
	return f
}

// EditID returns the record id in edit mode, or 0.
func (f Form) EditID() int64 {
	if m, ok := f.Mode.(EditMode); ok {
		return m.ID
	}
	return 0
}

// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package category

// Icon is the closed set of glyphs the mobile client can render for a
// taxonomy node. The upstream API stores icon names as free-form strings;
// ParseIcon pins them to this set so an unknown or misspelled upstream value
// degrades to a generic glyph instead of a broken image on the device.
type Icon string

const (
	IconPlumbing   Icon = "plumbing"
	IconElectrical Icon = "electrical"
	IconHVAC       Icon = "hvac"
	IconCleaning   Icon = "cleaning"
	IconCarpentry  Icon = "carpentry"
	IconPainting   Icon = "painting"
	IconElevator   Icon = "elevator"
	IconSafety     Icon = "safety"
	IconIT         Icon = "it"
	IconLandscape  Icon = "landscape"
	IconGeneral    Icon = "general"
)

// ParseIcon maps an upstream icon name onto the closed set. Unknown names
// fall back to [IconGeneral].
func ParseIcon(name string) Icon {
	switch Icon(name) {
	case IconPlumbing, IconElectrical, IconHVAC, IconCleaning, IconCarpentry,
		IconPainting, IconElevator, IconSafety, IconIT, IconLandscape, IconGeneral:
		return Icon(name)
	default:
		return IconGeneral
	}
}

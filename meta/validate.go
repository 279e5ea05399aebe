package meta

import (
	"github.com/go-openexr/openexr/attr"
	"github.com/go-openexr/openexr/internal/exrerr"
)

var requiredAttrs = []string{
	attrChannels, attrCompression, attrDataWindow, attrDisplayWindow,
	attrLineOrder, attrPixelAspectRatio, attrScreenWindowCenter, attrScreenWindowWidth,
}

// Validate runs every cross-attribute check of §3/§4.3 over m. It is
// called by both ReadMeta and Write so a hand-built Meta gets the same
// scrutiny as one parsed from a file.
func Validate(m *Meta) error {
	multiPart := m.Prefix.MultiPart

	names := make(map[string]bool, len(m.Parts))
	var sharedTimeCode *attr.TimeCode
	var sharedChroma *attr.Chromaticities

	for _, p := range m.Parts {
		for _, req := range requiredAttrs {
			if _, ok := p.Attribute(req); !ok {
				return exrerr.Missing("required attribute " + req)
			}
		}

		if p.IsTiled() {
			if _, ok := p.Attribute(attrTiles); !ok {
				return exrerr.Missing("required attribute " + attrTiles)
			}
		}

		if multiPart {
			name, ok := p.Name()
			if !ok {
				return exrerr.Missing("required attribute " + attrName)
			}
			if names[name] {
				return exrerr.Invalid("duplicate part name " + name)
			}
			names[name] = true

			if _, ok := p.Attribute(attrType); !ok {
				return exrerr.Missing("required attribute " + attrType)
			}
		}

		if err := validateChannelNames(p); err != nil {
			return err
		}
		if err := validatePartType(p, m.Prefix); err != nil {
			return err
		}
		if err := validateLineOrderAndLevels(p); err != nil {
			return err
		}
		if err := validateTilesPresence(p); err != nil {
			return err
		}
		if err := validateDataWindow(p); err != nil {
			return err
		}

		if a, ok := p.Attribute("timeCode"); ok {
			tc, ok := a.Value.(attr.TimeCode)
			if !ok {
				return exrerr.Invalid("timeCode has wrong attribute type")
			}
			if sharedTimeCode == nil {
				sharedTimeCode = &tc
			} else if *sharedTimeCode != tc {
				return exrerr.Invalid("timeCode differs across parts")
			}
		}
		if a, ok := p.Attribute("chromaticities"); ok {
			ch, ok := a.Value.(attr.Chromaticities)
			if !ok {
				return exrerr.Invalid("chromaticities has wrong attribute type")
			}
			if sharedChroma == nil {
				sharedChroma = &ch
			} else if *sharedChroma != ch {
				return exrerr.Invalid("chromaticities differs across parts")
			}
		}
	}

	return nil
}

// validateDataWindow enforces invariant 1: the data window is non-empty.
func validateDataWindow(p *Header) error {
	dw, err := p.DataWindow()
	if err != nil {
		return err
	}
	if dw.Empty() {
		return exrerr.Invalid("data window is empty")
	}

	return nil
}

// validateChannelNames enforces invariant 2 (channel names unique within
// a part) plus the channel-sampling constraint from §3.
func validateChannelNames(p *Header) error {
	cl, err := p.Channels()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(cl))
	for _, c := range cl {
		if seen[c.Name] {
			return exrerr.Invalid("duplicate channel name " + c.Name)
		}
		seen[c.Name] = true

		if !c.Type.Valid() {
			return exrerr.Invalid("channel " + c.Name + " has invalid pixel type")
		}
		if c.XSampling < 1 || c.YSampling < 1 {
			return exrerr.Invalid("channel " + c.Name + " has non-positive sampling rate")
		}
		if c.XSampling != 1 || c.YSampling != 1 {
			return exrerr.Unsupported("channel sub-sampling rate greater than 1")
		}
	}

	return nil
}

// validatePartType enforces invariant 7: the part-type string agrees
// with the tiles attribute's presence. When the type attribute is absent,
// the file-level tiled bit is checked against the tiles attribute instead.
func validatePartType(p *Header, prefix Prefix) error {
	typ, ok := p.Type()
	if !ok {
		// Single-part files may omit "type"; inferred from the
		// tiles attribute and the file-level tiled bit.
		if p.IsTiled() != prefix.Tiled {
			return exrerr.Invalid("tiled bit disagrees with tiles attribute")
		}

		return nil
	}

	switch typ {
	case TypeScanLineImage:
		if p.IsTiled() {
			return exrerr.Invalid("scanlineimage part carries a tiles attribute")
		}
	case TypeTiledImage:
		if !p.IsTiled() {
			return exrerr.Invalid("tiledimage part is missing a tiles attribute")
		}
	case TypeDeepScanLine, TypeDeepTile:
		return exrerr.Unsupported("deep data parts")
	default:
		return exrerr.Invalid("unrecognised part type " + typ)
	}

	return nil
}

// validateLineOrderAndLevels enforces invariant 5: scan-line parts use
// levelMode ONE (implicit: no tiles attribute) and a line order other
// than RANDOM_Y.
func validateLineOrderAndLevels(p *Header) error {
	lo, err := p.LineOrder()
	if err != nil {
		return err
	}
	if !lo.Valid() {
		return exrerr.Invalid("invalid lineOrder value")
	}
	if !p.IsTiled() && lo == attr.LineOrderRandomY {
		return exrerr.Invalid("scan-line part uses RANDOM_Y line order")
	}

	return nil
}

// validateTilesPresence enforces invariant 6: a tiles attribute, if
// present, names valid tile dimensions, level mode and rounding.
func validateTilesPresence(p *Header) error {
	td, ok := p.Tiles()
	if !ok {
		return nil
	}
	if td.XSize < 1 || td.YSize < 1 {
		return exrerr.Invalid("tile dimensions must be positive")
	}
	if !td.Mode.Valid() {
		return exrerr.Invalid("invalid tile level mode")
	}
	if !td.Rounding.Valid() {
		return exrerr.Invalid("invalid tile rounding mode")
	}

	return nil
}

// Package compose blends premultiplied RGBA8 rows for document flattening.
//
// All operations work on premultiplied alpha in the range 0-255, the layout
// used by layer surfaces.
package compose

// Mode selects the per-pixel blend operator.
type Mode uint8

const (
	Normal   Mode = iota // S + D*(1-Sa)
	Multiply             // S*D + S*(1-Da) + D*(1-Sa)
	Screen               // S + D - S*D
	Additive             // S + D, clamped
)

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

func addClamp(a, b int) byte {
	if s := a + b; s < 255 {
		if s < 0 {
			return 0
		}
		return byte(s)
	}
	return 255
}

// Row blends len(src)/4 source pixels onto dst in place. opacity scales the
// source before blending (255 = opaque).
func Row(dst, src []byte, mode Mode, opacity byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		sr, sg, sb, sa := src[i], src[i+1], src[i+2], src[i+3]
		if opacity != 255 {
			sr, sg, sb, sa = mulDiv255(sr, opacity), mulDiv255(sg, opacity), mulDiv255(sb, opacity), mulDiv255(sa, opacity)
		}
		if sa == 0 && mode != Additive {
			continue
		}
		dr, dg, db, da := dst[i], dst[i+1], dst[i+2], dst[i+3]
		invSa, invDa := 255-sa, 255-da

		switch mode {
		case Multiply:
			dst[i] = addClamp(int(mulDiv255(sr, dr))+int(mulDiv255(sr, invDa)), int(mulDiv255(dr, invSa)))
			dst[i+1] = addClamp(int(mulDiv255(sg, dg))+int(mulDiv255(sg, invDa)), int(mulDiv255(dg, invSa)))
			dst[i+2] = addClamp(int(mulDiv255(sb, db))+int(mulDiv255(sb, invDa)), int(mulDiv255(db, invSa)))
		case Screen:
			dst[i] = addClamp(int(sr)+int(dr), -int(mulDiv255(sr, dr)))
			dst[i+1] = addClamp(int(sg)+int(dg), -int(mulDiv255(sg, dg)))
			dst[i+2] = addClamp(int(sb)+int(db), -int(mulDiv255(sb, db)))
		case Additive:
			dst[i] = addClamp(int(sr), int(dr))
			dst[i+1] = addClamp(int(sg), int(dg))
			dst[i+2] = addClamp(int(sb), int(db))
		default:
			dst[i] = addClamp(int(sr), int(mulDiv255(dr, invSa)))
			dst[i+1] = addClamp(int(sg), int(mulDiv255(dg, invSa)))
			dst[i+2] = addClamp(int(sb), int(mulDiv255(db, invSa)))
		}
		dst[i+3] = addClamp(int(sa), int(mulDiv255(da, invSa)))
	}
}

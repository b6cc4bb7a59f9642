package grid

import "strconv"

// Decode maps a code back to the cell it identifies: bounding box,
// altitude band, centre, and level. Decoding proceeds left to right,
// narrowing the bbox (and, from level 6 on, the altitude band) one level
// at a time.
func Decode(code string) (Cell, error) {
	level, ok := lengthToLevel[len(code)]
	if !ok {
		return Cell{}, &ErrInvalidCode{Code: code, Reason: "length not in the accepted set"}
	}

	hemisphere := code[0]
	if hemisphere != 'N' && hemisphere != 'S' {
		return Cell{}, &ErrInvalidCode{Code: code, Reason: "leading character must be N or S"}
	}

	lonTens, err1 := digitValue(code[1])
	lonOnes, err2 := digitValue(code[2])
	if err1 != nil || err2 != nil {
		return Cell{}, &ErrInvalidCode{Code: code, Reason: "non-digit longitude zone"}
	}
	lonIdx := lonTens*10 + lonOnes
	if lonIdx < 1 || lonIdx > 60 {
		return Cell{}, &ErrInvalidCode{Code: code, Reason: "longitude zone out of range 01-60"}
	}

	latChar := code[3]
	if latChar < 'A' || latChar > 'W' {
		return Cell{}, &ErrInvalidCode{Code: code, Reason: "latitude letter out of range A-W"}
	}
	latIdx := int(latChar - 'A')

	lonMin := float64(lonIdx-1)*6 - 180
	lonMax := lonMin + 6
	var latMin, latMax float64
	if hemisphere == 'N' {
		latMin = float64(latIdx) * 4
		latMax = latMin + 4
	} else {
		latMax = -float64(latIdx) * 4
		latMin = latMax - 4
	}

	altLo, altHi := 0.0, float64(maxElevation)

	if level == 1 {
		return cellFromBounds(1, Bounds{MinLon: lonMin, MaxLon: lonMax, MinLat: latMin, MaxLat: latMax}, altLo, altHi, code), nil
	}

	centreLon, centreLat := (lonMin+lonMax)/2, (latMin+latMax)/2
	quad := quadrantOf(centreLon, centreLat)
	// West/south quadrants run their sub-cell index backwards from the
	// equator/meridian-relative idx cellIndex produces: west counts
	// longitude toward the meridian, south counts latitude toward the
	// equator, so idx there is the mirror of the bbox-relative col/row.
	lonFlip := quad == QuadNW || quad == QuadSW
	latFlip := quad == QuadSW || quad == QuadSE

	horizontal, altitude := deinterleave(code, level)

	hPos := 0
	aPos := 0

	for l := 2; l <= level; l++ {
		spec := levelSpecs[l]
		childLon, childLat := lonWidths[l], latWidths[l]

		var row, col int
		switch spec.scheme {
		case schemeZOrder:
			digit, err := digitValue(horizontal[hPos])
			if err != nil {
				return Cell{}, &ErrInvalidCode{Code: code, Reason: "non-digit where a level digit was expected"}
			}
			hPos++
			// The table's row/col are exactly the idx pair Encode looked
			// them up with — the geometric mirror is applied here, not
			// baked into the table.
			rc := invZTables[l][quad][digit]
			row, col = rc[0], rc[1]
			if lonFlip {
				col = spec.fanLon - 1 - col
			}
			if latFlip {
				row = spec.fanLat - 1 - row
			}
		case schemeRaw:
			lonDigit, err1 := digitValue(horizontal[hPos])
			latDigit, err2 := digitValue(horizontal[hPos+1])
			if err1 != nil || err2 != nil {
				return Cell{}, &ErrInvalidCode{Code: code, Reason: "non-digit where a level digit was expected"}
			}
			hPos += 2
			// Encode's own sign-conditioned flip already leaves lonDigit
			// bbox-relative as written; latDigit needs the unconditional
			// fanLat-1-x undo in both hemispheres (Encode's lat>=0 flip
			// and the idx-to-row geometry's lat<0 flip land on the same
			// undo either way).
			col = lonDigit
			row = spec.fanLat - 1 - latDigit
		}

		// The last child along an axis keeps its parent's far edge as is,
		// so an edge shared with the parent does not drift in the last
		// float digit as levels accumulate.
		lonMin = lonMin + float64(col)*childLon
		if col < spec.fanLon-1 {
			lonMax = lonMin + childLon
		}
		latMin = latMin + float64(row)*childLat
		if row < spec.fanLat-1 {
			latMax = latMin + childLat
		}

		if spec.emitsAltitude {
			digit, err := digitValue(altitude[aPos])
			if err != nil {
				return Cell{}, &ErrInvalidCode{Code: code, Reason: "non-digit altitude digit"}
			}
			aPos++
			altLo, altHi = decodeAltitudeDigit(digit, altLo, altHi)
		}
	}

	return cellFromBounds(level, Bounds{MinLon: lonMin, MaxLon: lonMax, MinLat: latMin, MaxLat: latMax}, altLo, altHi, code), nil
}

// deinterleave splits code's level-2-and-deeper tail into its horizontal
// (non-altitude) digits and its altitude digits, inverting the merge
// Encode's spliceAltitude performs.
func deinterleave(code string, level int) (horizontal, altitude string) {
	altCount := altDigitCount(level)
	altSet := altDigitPos0[:altCount]
	var h, a []byte
	ai := 0
	for k := 4; k < len(code); k++ {
		if ai < len(altSet) && altSet[ai] == k {
			a = append(a, code[k])
			ai++
		} else {
			h = append(h, code[k])
		}
	}
	return string(h), string(a)
}

func digitValue(b byte) (int, error) {
	if b < '0' || b > '9' {
		return 0, strconv.ErrSyntax
	}
	return int(b - '0'), nil
}

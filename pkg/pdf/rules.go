package pdf

import (
	"math"
	"sort"
)

// ruleTolerance is how far apart two coordinates may be and still be the same
const ruleTolerance = 0.1

func near(a, b float64) bool {
	return math.Abs(a-b) < ruleTolerance
}

// cleanObjects drops the page frame and the duplicate strokes many producers
// emit for each table rule, so grid detection sees every rule once
func cleanObjects(objects Objects, pageWidth, pageHeight float64) Objects {
	objects.Lines = mergeRules(dedupeLines(dropBorderLines(objects.Lines, pageWidth, pageHeight)))
	objects.Rects = dedupeRects(dropPageFrames(objects.Rects, pageWidth, pageHeight))
	return objects
}

func dedupeLines(lines []LineObject) []LineObject {
	var out []LineObject
	for _, l := range lines {
		dup := false
		for _, kept := range out {
			same := near(l.X0, kept.X0) && near(l.Y0, kept.Y0) && near(l.X1, kept.X1) && near(l.Y1, kept.Y1)
			reversed := near(l.X0, kept.X1) && near(l.Y0, kept.Y1) && near(l.X1, kept.X0) && near(l.Y1, kept.Y0)
			if same || reversed {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}

func dedupeRects(rects []RectObject) []RectObject {
	var out []RectObject
	for _, r := range rects {
		dup := false
		for _, kept := range out {
			if near(r.X0, kept.X0) && near(r.Y0, kept.Y0) && near(r.X1, kept.X1) && near(r.Y1, kept.Y1) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// dropBorderLines removes rules lying on the page edges
func dropBorderLines(lines []LineObject, pageWidth, pageHeight float64) []LineObject {
	var out []LineObject
	for _, l := range lines {
		onEdge := (math.Abs(l.X0) < 1 && math.Abs(l.X1) < 1) ||
			(math.Abs(l.X0-pageWidth) < 1 && math.Abs(l.X1-pageWidth) < 1) ||
			(math.Abs(l.Y0) < 1 && math.Abs(l.Y1) < 1) ||
			(math.Abs(l.Y0-pageHeight) < 1 && math.Abs(l.Y1-pageHeight) < 1)
		if !onEdge {
			out = append(out, l)
		}
	}
	return out
}

// dropPageFrames removes rectangles covering most of the page, such as a
// border drawn around the whole statement
func dropPageFrames(rects []RectObject, pageWidth, pageHeight float64) []RectObject {
	var out []RectObject
	for _, r := range rects {
		if r.X1-r.X0 > pageWidth*0.9 && r.Y1-r.Y0 > pageHeight*0.5 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeRules joins collinear horizontal or vertical segments that touch.
// Diagonal strokes are dropped.
func mergeRules(lines []LineObject) []LineObject {
	var horizontal, vertical []LineObject
	for _, l := range lines {
		switch {
		case near(l.Y0, l.Y1):
			if l.X0 > l.X1 {
				l.X0, l.X1 = l.X1, l.X0
			}
			horizontal = append(horizontal, l)
		case near(l.X0, l.X1):
			if l.Y0 > l.Y1 {
				l.Y0, l.Y1 = l.Y1, l.Y0
			}
			vertical = append(vertical, l)
		}
	}

	out := mergeAxis(horizontal,
		func(l LineObject) (float64, float64, float64) { return l.Y0, l.X0, l.X1 },
		func(l *LineObject, lo, hi float64) { l.X0, l.X1 = lo, hi })
	return append(out, mergeAxis(vertical,
		func(l LineObject) (float64, float64, float64) { return l.X0, l.Y0, l.Y1 },
		func(l *LineObject, lo, hi float64) { l.Y0, l.Y1 = lo, hi })...)
}

// mergeAxis merges segments sharing the same fixed coordinate whose spans
// overlap or touch within 1pt
func mergeAxis(lines []LineObject, key func(LineObject) (fixed, lo, hi float64), set func(*LineObject, float64, float64)) []LineObject {
	if len(lines) == 0 {
		return nil
	}

	sort.Slice(lines, func(i, j int) bool {
		fi, li, _ := key(lines[i])
		fj, lj, _ := key(lines[j])
		if !near(fi, fj) {
			return fi < fj
		}
		return li < lj
	})

	var out []LineObject
	current := lines[0]
	for _, l := range lines[1:] {
		cf, clo, chi := key(current)
		f, lo, hi := key(l)
		if near(f, cf) && lo <= chi+1 {
			set(&current, clo, max(chi, hi))
			current.Width = max(current.Width, l.Width)
			continue
		}
		out = append(out, current)
		current = l
	}
	return append(out, current)
}

package pdf

import (
	"math"
	"sort"
	"strings"
)

// tableExtractor finds tables on a page. RFB statements draw the debt table
// either as a full cell grid, as one shaded rectangle per row, or with no
// rules at all; each case has its own detection below.
type tableExtractor struct {
	page               Page
	verticalStrategy   string
	horizontalStrategy string
	minTableSize       int
	textTolerance      float64
	snapTolerance      float64
}

// newTableExtractor creates a new table extractor with default settings
func newTableExtractor(page Page, opts ...TableExtractionOption) *tableExtractor {
	config := &tableExtractionConfig{
		VerticalStrategy:   "lines",
		HorizontalStrategy: "lines",
		MinTableSize:       2,
		TextTolerance:      3.0,
	}
	for _, opt := range opts {
		opt(config)
	}

	return &tableExtractor{
		page:               page,
		verticalStrategy:   config.VerticalStrategy,
		horizontalStrategy: config.HorizontalStrategy,
		minTableSize:       config.MinTableSize,
		textTolerance:      config.TextTolerance,
		snapTolerance:      3.0,
	}
}

// ExtractTables extracts tables from the page
func (te *tableExtractor) ExtractTables() []Table {
	objects := cleanObjects(te.page.GetObjects(), te.page.GetWidth(), te.page.GetHeight())

	var tables []Table
	if te.verticalStrategy == "lines" || te.horizontalStrategy == "lines" {
		tables = te.extractLineBasedTables(objects)
	}

	// No rules on the page; fall back to column alignment of the words
	if len(tables) == 0 {
		tables = te.extractTextBasedTables()
	}

	return tables
}

// extractLineBasedTables extracts tables using lines and rectangles
func (te *tableExtractor) extractLineBasedTables(objects Objects) []Table {
	if len(objects.Rects) >= te.minTableSize {
		if rowTable := te.extractTableFromRowRectangles(objects); rowTable != nil {
			return []Table{*rowTable}
		}
	}

	hLines, vLines := te.collectTableLines(objects)

	// Rectangle edges count as rules too
	for _, rect := range objects.Rects {
		hLines = append(hLines,
			LineObject{X0: rect.X0, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y0},
			LineObject{X0: rect.X0, Y0: rect.Y1, X1: rect.X1, Y1: rect.Y1})
		vLines = append(vLines,
			LineObject{X0: rect.X0, Y0: rect.Y0, X1: rect.X0, Y1: rect.Y1},
			LineObject{X0: rect.X1, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y1})
	}

	var tables []Table
	for _, region := range te.findTableRegions(hLines, vLines) {
		table := te.extractTableFromRegion(region, objects.Chars)
		table.Rows = dropEmptyRows(table.Rows)
		if len(table.Rows) >= te.minTableSize {
			tables = append(tables, table)
		}
	}

	return tables
}

// collectTableLines separates lines into horizontal and vertical
func (te *tableExtractor) collectTableLines(objects Objects) ([]LineObject, []LineObject) {
	var hLines, vLines []LineObject

	for _, line := range objects.Lines {
		switch {
		case math.Abs(line.Y1-line.Y0) < te.snapTolerance:
			hLines = append(hLines, line)
		case math.Abs(line.X1-line.X0) < te.snapTolerance:
			vLines = append(vLines, line)
		}
	}

	return hLines, vLines
}

// tableRegion is a grid of cells bounded by rule positions
type tableRegion struct {
	BBox  BoundingBox
	Cells [][]BoundingBox
}

// findTableRegions pairs every cluster of horizontal rules with every cluster
// of vertical rules spanning the same rows and keeps the ones that form a grid
func (te *tableExtractor) findTableRegions(hLines, vLines []LineObject) []tableRegion {
	var regions []tableRegion

	for _, hGroup := range te.groupHorizontalLines(hLines) {
		top, bottom := hGroup[0].Y0, hGroup[len(hGroup)-1].Y0
		for _, vGroup := range te.groupVerticalLines(vLines) {
			if len(hGroup) < 2 || len(vGroup) < 2 {
				continue
			}
			vTop, vBottom := verticalSpan(vGroup)
			if vBottom < top-te.snapTolerance || vTop > bottom+te.snapTolerance {
				continue
			}
			if region := te.createTableRegion(hGroup, vGroup); region != nil {
				regions = append(regions, *region)
			}
		}
	}

	return regions
}

// groupHorizontalLines clusters rules whose y positions are less than 30pt apart
func (te *tableExtractor) groupHorizontalLines(lines []LineObject) [][]LineObject {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]LineObject, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Y0 < sorted[j].Y0
	})

	var groups [][]LineObject
	current := []LineObject{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Y0-sorted[i-1].Y0 > 30 {
			groups = append(groups, current)
			current = []LineObject{sorted[i]}
			continue
		}
		current = append(current, sorted[i])
	}
	groups = append(groups, current)

	return groups
}

// groupVerticalLines clusters rules whose vertical extents touch or overlap,
// so every column border of one table lands in the same group
func (te *tableExtractor) groupVerticalLines(lines []LineObject) [][]LineObject {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]LineObject, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return min(sorted[i].Y0, sorted[i].Y1) < min(sorted[j].Y0, sorted[j].Y1)
	})

	var groups [][]LineObject
	current := []LineObject{sorted[0]}
	_, reach := verticalSpan(current)
	for _, line := range sorted[1:] {
		if min(line.Y0, line.Y1) > reach+te.snapTolerance {
			groups = append(groups, current)
			current = []LineObject{line}
			reach = max(line.Y0, line.Y1)
			continue
		}
		current = append(current, line)
		reach = max(reach, max(line.Y0, line.Y1))
	}
	groups = append(groups, current)

	return groups
}

func verticalSpan(lines []LineObject) (float64, float64) {
	top, bottom := math.MaxFloat64, -math.MaxFloat64
	for _, l := range lines {
		top = min(top, min(l.Y0, l.Y1))
		bottom = max(bottom, max(l.Y0, l.Y1))
	}
	return top, bottom
}

// createTableRegion creates a table region from line groups
func (te *tableExtractor) createTableRegion(hLines, vLines []LineObject) *tableRegion {
	hPositions := te.uniquePositions(hLines, true)
	vPositions := te.uniquePositions(vLines, false)
	if len(hPositions) < 2 || len(vPositions) < 2 {
		return nil
	}

	cells := make([][]BoundingBox, len(hPositions)-1)
	for i := 0; i < len(hPositions)-1; i++ {
		cells[i] = make([]BoundingBox, len(vPositions)-1)
		for j := 0; j < len(vPositions)-1; j++ {
			cells[i][j] = BoundingBox{
				X0: vPositions[j],
				Y0: hPositions[i],
				X1: vPositions[j+1],
				Y1: hPositions[i+1],
			}
		}
	}

	return &tableRegion{
		BBox: BoundingBox{
			X0: vPositions[0],
			Y0: hPositions[0],
			X1: vPositions[len(vPositions)-1],
			Y1: hPositions[len(hPositions)-1],
		},
		Cells: cells,
	}
}

// uniquePositions snaps rule positions to the snap tolerance and sorts them
func (te *tableExtractor) uniquePositions(lines []LineObject, horizontal bool) []float64 {
	seen := make(map[float64]bool)
	var positions []float64

	for _, line := range lines {
		p := line.X0
		if horizontal {
			p = line.Y0
		}
		p = math.Round(p/te.snapTolerance) * te.snapTolerance
		if !seen[p] {
			seen[p] = true
			positions = append(positions, p)
		}
	}

	sort.Float64s(positions)
	return positions
}

// extractTableFromRegion extracts table data from a region
func (te *tableExtractor) extractTableFromRegion(region tableRegion, chars []CharObject) Table {
	rows := make([][]string, len(region.Cells))
	for i, row := range region.Cells {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = te.extractCellText(cell, chars)
		}
	}

	return Table{Rows: rows, BBox: region.BBox}
}

// extractCellText collects the characters whose center falls in the cell
func (te *tableExtractor) extractCellText(cell BoundingBox, chars []CharObject) string {
	var cellChars []CharObject
	for _, char := range chars {
		centerX := (char.X0 + char.X1) / 2
		centerY := (char.Y0 + char.Y1) / 2
		if cell.Contains(centerX, centerY) {
			cellChars = append(cellChars, char)
		}
	}

	sort.Slice(cellChars, func(i, j int) bool {
		if math.Abs(cellChars[i].Y0-cellChars[j].Y0) > te.textTolerance {
			return cellChars[i].Y0 < cellChars[j].Y0
		}
		return cellChars[i].X0 < cellChars[j].X0
	})

	var text strings.Builder
	lastY, lastX := -1000.0, -1000.0
	for _, char := range cellChars {
		if lastY > -1000 && math.Abs(char.Y0-lastY) > te.textTolerance {
			// Wrapped cell text reads as one value
			text.WriteString(" ")
		} else if lastX > -1000 && char.X0-lastX > te.textTolerance {
			text.WriteString(" ")
		}
		text.WriteString(char.Text)
		lastY = char.Y0
		lastX = char.X1
	}

	return strings.TrimSpace(text.String())
}

// extractTableFromRowRectangles handles tables drawn as one band per row: all
// rectangles share the same left and right edges and stack vertically
func (te *tableExtractor) extractTableFromRowRectangles(objects Objects) *Table {
	rects := make([]RectObject, len(objects.Rects))
	copy(rects, objects.Rects)

	minX, maxX := rects[0].X0, rects[0].X1
	for _, rect := range rects {
		if math.Abs(rect.X0-minX) > te.snapTolerance || math.Abs(rect.X1-maxX) > te.snapTolerance {
			return nil
		}
	}

	sort.Slice(rects, func(i, j int) bool {
		return rects[i].Y0 < rects[j].Y0
	})

	columns := te.findTextColumns(objects.Chars, minX, maxX)
	if len(columns) < 2 {
		return nil
	}

	var rows [][]string
	for _, rect := range rects {
		if row := te.extractRowFromRectangle(rect, objects.Chars, columns); hasContent(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) < te.minTableSize {
		return nil
	}

	return &Table{
		Rows: removeEmptyColumns(rows),
		BBox: BoundingBox{X0: minX, Y0: rects[0].Y0, X1: maxX, Y1: rects[len(rects)-1].Y1},
	}
}

// findTextColumns returns the x positions where words start often enough to
// be a column
func (te *tableExtractor) findTextColumns(chars []CharObject, minX, maxX float64) []float64 {
	counts := make(map[float64]int)
	for _, word := range wordsFromChars(chars, te.textTolerance) {
		if word.X0 >= minX-te.snapTolerance && word.X1 <= maxX+te.snapTolerance {
			counts[math.Round(word.X0/te.snapTolerance)*te.snapTolerance]++
		}
	}

	var columns []float64
	for x, count := range counts {
		if count >= te.minTableSize {
			columns = append(columns, x)
		}
	}

	sort.Float64s(columns)
	return columns
}

// extractRowFromRectangle extracts text for each column in a row rectangle
func (te *tableExtractor) extractRowFromRectangle(rect RectObject, chars []CharObject, columns []float64) []string {
	var rowChars []CharObject
	for _, char := range chars {
		centerY := (char.Y0 + char.Y1) / 2
		if centerY >= rect.Y0 && centerY <= rect.Y1 &&
			char.X0 >= rect.X0-te.snapTolerance && char.X1 <= rect.X1+te.snapTolerance {
			rowChars = append(rowChars, char)
		}
	}

	row := make([]string, len(columns))
	for _, word := range wordsFromChars(rowChars, te.textTolerance) {
		idx := te.findColumnIndex(word.X0, columns)
		if idx < 0 {
			continue
		}
		if row[idx] != "" {
			row[idx] += " "
		}
		row[idx] += word.Text
	}

	return row
}

// findColumnIndex finds the column whose span contains x
func (te *tableExtractor) findColumnIndex(x float64, columns []float64) int {
	for i, colX := range columns {
		if i == len(columns)-1 {
			if x >= colX-te.snapTolerance {
				return i
			}
			continue
		}
		if x >= colX-te.snapTolerance && x < columns[i+1]-te.snapTolerance {
			return i
		}
	}
	return -1
}

// extractTextBasedTables builds a table from word start positions that line
// up across rows
func (te *tableExtractor) extractTextBasedTables() []Table {
	words := te.page.ExtractWords(WithYTolerance(te.textTolerance))
	if len(words) == 0 {
		return nil
	}

	lines := te.groupWordsIntoLines(words)
	columns := te.findAlignedColumns(lines)
	if len(columns) < 2 || len(lines) < te.minTableSize {
		return nil
	}

	table := te.createTableFromWordLines(lines, columns)
	if len(table.Rows) < te.minTableSize {
		return nil
	}
	return []Table{table}
}

// wordLine represents a line of words
type wordLine struct {
	Words []Word
	BBox  BoundingBox
	Y     float64
}

// groupWordsIntoLines groups words into lines based on Y position
func (te *tableExtractor) groupWordsIntoLines(words []Word) []wordLine {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y0 < sorted[j].Y0
	})

	var lines []wordLine
	current := wordLine{Words: []Word{sorted[0]}, Y: sorted[0].Y0}
	for _, w := range sorted[1:] {
		if math.Abs(w.Y0-current.Y) < te.textTolerance {
			current.Words = append(current.Words, w)
			continue
		}
		lines = append(lines, finalizeWordLine(current))
		current = wordLine{Words: []Word{w}, Y: w.Y0}
	}
	lines = append(lines, finalizeWordLine(current))

	return lines
}

// finalizeWordLine sorts the words left to right and computes the line box
func finalizeWordLine(line wordLine) wordLine {
	sort.Slice(line.Words, func(i, j int) bool {
		return line.Words[i].X0 < line.Words[j].X0
	})

	line.BBox = BoundingBox{
		X0: line.Words[0].X0,
		Y0: line.Words[0].Y0,
		X1: line.Words[len(line.Words)-1].X1,
		Y1: line.Words[0].Y1,
	}
	for _, w := range line.Words {
		line.BBox.Y0 = min(line.BBox.Y0, w.Y0)
		line.BBox.Y1 = max(line.BBox.Y1, w.Y1)
	}

	return line
}

// findAlignedColumns keeps word start positions shared by at least 2 lines
// or 30% of them, whichever is larger
func (te *tableExtractor) findAlignedColumns(lines []wordLine) []float64 {
	if len(lines) < 2 {
		return nil
	}

	counts := make(map[float64]int)
	for _, line := range lines {
		for _, word := range line.Words {
			counts[math.Round(word.X0/te.snapTolerance)*te.snapTolerance]++
		}
	}

	minCount := max(2.0, float64(len(lines)*3/10))
	var columns []float64
	for x, count := range counts {
		if float64(count) >= minCount {
			columns = append(columns, x)
		}
	}

	sort.Float64s(columns)
	return columns
}

// createTableFromWordLines creates a table from aligned word lines
func (te *tableExtractor) createTableFromWordLines(lines []wordLine, columns []float64) Table {
	bbox := lines[0].BBox
	rows := make([][]string, 0, len(lines))

	for _, line := range lines {
		bbox.X0 = min(bbox.X0, line.BBox.X0)
		bbox.Y0 = min(bbox.Y0, line.BBox.Y0)
		bbox.X1 = max(bbox.X1, line.BBox.X1)
		bbox.Y1 = max(bbox.Y1, line.BBox.Y1)

		row := make([]string, len(columns))
		for _, word := range line.Words {
			// Words between aligned columns belong to the column on their left
			idx := te.findColumnIndex(word.X0, columns)
			if idx < 0 {
				continue
			}
			if row[idx] != "" {
				row[idx] += " "
			}
			row[idx] += word.Text
		}
		if hasContent(row) {
			rows = append(rows, row)
		}
	}

	return Table{Rows: rows, BBox: bbox}
}

func wordsFromChars(chars []CharObject, tolerance float64) []Word {
	var words []Word
	for _, row := range groupCharsIntoRows(chars, tolerance) {
		words = append(words, wordsFromRow(row, tolerance)...)
	}
	return words
}

func hasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

func dropEmptyRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		if hasContent(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

// removeEmptyColumns removes columns that are entirely empty
func removeEmptyColumns(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}

	numCols := len(rows[0])
	used := make([]bool, numCols)
	for _, row := range rows {
		for i, cell := range row {
			if i < numCols && strings.TrimSpace(cell) != "" {
				used[i] = true
			}
		}
	}

	out := make([][]string, len(rows))
	for r, row := range rows {
		for i, cell := range row {
			if i < numCols && used[i] {
				out[r] = append(out[r], cell)
			}
		}
	}
	return out
}

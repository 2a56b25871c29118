package parser

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"iso3166-scraper/normalize"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoTable is returned when no table in a document has the expected key
// column.
var ErrNoTable = errors.New("no table with a matching key column")

// ExcludeRule drops a table when the cell at (Row, Col) of its raw grid
// equals Value. Positions outside the grid never match.
type ExcludeRule struct {
	Row   int
	Col   int
	Value string
}

// Table is one HTML table flattened to a grid: column names in document
// order and one map per data row keyed by column name.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// gridCell is a single expanded table cell.
type gridCell struct {
	text   string
	header bool
}

// ExtractTables parses markup and flattens every table element into a
// Table, dropping tables matched by an exclusion rule. A colspan repeats a
// cell across columns and a rowspan carries it down into following rows.
// The leading rows consisting entirely of header cells form the header; a
// table without header cells uses its first row instead.
func ExtractTables(markup []byte, exclude []ExcludeRule) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		grid := expandGrid(sel)
		if len(grid) == 0 {
			return
		}
		if excluded(grid, exclude) {
			slog.Debug("table dropped by exclusion rule")
			return
		}
		tables = append(tables, gridToTable(grid))
	})

	return tables, nil
}

// FindTable returns the first table having a column matching key. All
// tables are scanned for a case-insensitive exact match first, then again
// for a substring match. ErrNoTable is returned when neither pass hits.
func FindTable(tables []Table, key string) (Table, error) {
	lower := strings.ToLower(key)
	for _, t := range tables {
		for _, col := range t.Columns {
			if strings.ToLower(col) == lower {
				slog.Debug("table found with exact column match", "column", col)
				return t, nil
			}
		}
	}
	for _, t := range tables {
		for _, col := range t.Columns {
			if strings.Contains(strings.ToLower(col), lower) {
				slog.Debug("table found with fuzzy column match", "column", col, "key", key)
				return t, nil
			}
		}
	}
	return Table{}, fmt.Errorf("%w: %q", ErrNoTable, key)
}

// Column returns the first column name matching any of the candidates,
// trying a case-insensitive exact match before a substring match for each
// candidate in turn.
func (t Table) Column(candidates ...string) (string, bool) {
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		for _, col := range t.Columns {
			if strings.ToLower(col) == lower {
				return col, true
			}
		}
		for _, col := range t.Columns {
			if strings.Contains(strings.ToLower(col), lower) {
				return col, true
			}
		}
	}
	return "", false
}

// RenameColumns returns a copy of the table with every column name passed
// through rename. Row keys follow the new names.
func (t Table) RenameColumns(rename func(string) string) Table {
	out := Table{Columns: make([]string, len(t.Columns))}
	for i, col := range t.Columns {
		out.Columns[i] = rename(col)
	}

	out.Rows = make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make(map[string]string, len(out.Columns))
		for j, col := range t.Columns {
			cells[out.Columns[j]] = row[col]
		}
		out.Rows[i] = cells
	}
	return out
}

// tableRows collects the direct rows of a table in document order, looking
// through thead/tbody/tfoot sections but not into nested tables.
func tableRows(table *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	table.Children().Each(func(_ int, child *goquery.Selection) {
		if child.Is("thead, tbody, tfoot") {
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				rows = append(rows, tr)
			})
			return
		}
		if child.Is("tr") {
			rows = append(rows, child)
		}
	})
	return rows
}

// expandGrid flattens a table's rows into a grid of cells, expanding
// colspan and rowspan attributes.
func expandGrid(table *goquery.Selection) [][]gridCell {
	type carry struct {
		cell gridCell
		left int
	}
	carries := map[int]*carry{}

	var grid [][]gridCell
	for _, tr := range tableRows(table) {
		row := []gridCell{}
		col := 0

		fillCarries := func() {
			for {
				cr, ok := carries[col]
				if !ok {
					return
				}
				row = append(row, cr.cell)
				cr.left--
				if cr.left == 0 {
					delete(carries, col)
				}
				col++
			}
		}

		fillCarries()
		tr.ChildrenFiltered("td, th").Each(func(_ int, sel *goquery.Selection) {
			cell := gridCell{text: cellText(sel), header: sel.Is("th")}
			colspan := intAttr(sel, "colspan", 1)
			if rowspan := intAttr(sel, "rowspan", 1); rowspan > 1 {
				for i := 0; i < colspan; i++ {
					carries[col+i] = &carry{cell: cell, left: rowspan - 1}
				}
			}
			for i := 0; i < colspan; i++ {
				row = append(row, cell)
				col++
			}
			fillCarries()
		})

		// A ragged row can end before the fill pointer reaches a pending
		// carry. Those cells still belong to this row, so place them in
		// column order. Carries behind the pointer were created by this
		// row's own cells and stay for the rows below.
		pending := make([]int, 0, len(carries))
		for c := range carries {
			if c >= col {
				pending = append(pending, c)
			}
		}
		sort.Ints(pending)
		for _, c := range pending {
			cr := carries[c]
			row = append(row, cr.cell)
			cr.left--
			if cr.left == 0 {
				delete(carries, c)
			}
		}

		grid = append(grid, row)
	}
	return grid
}

// gridToTable splits a grid into header and data rows. Two or more header
// rows collapse into one by joining each column's distinct labels with "-".
func gridToTable(grid [][]gridCell) Table {
	headerRows := headerRowCount(grid)
	headers := collapseHeaders(grid[:headerRows])

	t := Table{Columns: headers}
	for _, row := range grid[headerRows:] {
		if len(row) == 0 {
			continue
		}
		cells := make(map[string]string, len(headers))
		for i, name := range headers {
			if i < len(row) {
				cells[name] = row[i].text
			} else {
				cells[name] = ""
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// headerRowCount counts the leading rows whose cells are all header cells.
// Tables without any such row fall back to treating the first row as the
// header.
func headerRowCount(grid [][]gridCell) int {
	count := 0
	for _, row := range grid {
		if len(row) == 0 {
			break
		}
		all := true
		for _, cell := range row {
			if !cell.header {
				all = false
				break
			}
		}
		if !all {
			break
		}
		count++
	}
	if count == 0 {
		count = 1
	}
	return count
}

// collapseHeaders folds one or more header rows into a single list of
// column names.
func collapseHeaders(rows [][]gridCell) []string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	for col := 0; col < width; col++ {
		var label string
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			part := row[col].text
			if part == "" || part == label {
				continue
			}
			if label == "" {
				label = part
			} else {
				label += "-" + part
			}
		}
		headers[col] = label
	}
	return headers
}

// excluded reports whether any rule matches the grid.
func excluded(grid [][]gridCell, rules []ExcludeRule) bool {
	for _, r := range rules {
		if r.Row < 0 || r.Row >= len(grid) {
			continue
		}
		row := grid[r.Row]
		if r.Col < 0 || r.Col >= len(row) {
			continue
		}
		if row[r.Col].text == r.Value {
			return true
		}
	}
	return false
}

// cellText returns the visible text of a cell with whitespace collapsed.
func cellText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		collectText(node, &b)
	}
	return normalize.Whitespace(b.String())
}

// collectText walks a node collecting text content, skipping style and
// script bodies and spacing line breaks.
func collectText(node *html.Node, b *strings.Builder) {
	if node.Type == html.TextNode {
		b.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode {
		switch node.Data {
		case "style", "script":
			return
		case "br":
			b.WriteString(" ")
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
}

// intAttr reads a positive integer attribute, falling back to def when the
// attribute is missing or malformed.
func intAttr(sel *goquery.Selection, name string, def int) int {
	value, ok := sel.Attr(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return def
	}
	return n
}

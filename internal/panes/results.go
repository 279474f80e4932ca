package panes

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/avitaltamir/sqli/internal/driver"
	"github.com/avitaltamir/sqli/internal/layout"
	"github.com/avitaltamir/sqli/internal/navigation"
	"github.com/avitaltamir/sqli/internal/theme"
)

// Column width bounds in cells.
const (
	MinColumnWidth = 3
	MaxColumnWidth = 40
)

// Results shows the last query result as a table.
type Results struct {
	result    driver.Result
	hasResult bool
	err       error

	table     table.Model
	widths    []int
	colOffset int

	// copy writes text to the system clipboard.
	copy func(string) error

	area layout.Rect
}

// ResultsOption configures a Results pane.
type ResultsOption func(*Results)

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) ResultsOption {
	return func(r *Results) { r.copy = fn }
}

// NewResults creates an empty results pane.
func NewResults(opts ...ResultsOption) *Results {
	r := &Results{
		table: table.New(table.WithFocused(true)),
		copy:  clipboard.WriteAll,
	}
	r.applyStyles()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Results) ID() navigation.PaneID { return navigation.Results }

func (r *Results) ElementCount() int { return 1 }

func (r *Results) Area() layout.Rect { return r.area }

func (r *Results) SetArea(area layout.Rect) {
	r.area = area
	inner := area.Inner(1)
	r.table.SetWidth(max(inner.Width, 1))
	r.table.SetHeight(max(inner.Height, 1))
}

func (r *Results) applyStyles() {
	s := table.DefaultStyles()
	s.Header = theme.TableHeader.Padding(0, 1)
	s.Cell = theme.TableCell.Padding(0, 1)
	s.Selected = theme.TableSelected
	r.table.SetStyles(s)
}

// SetResult shows res and resets the cursor.
func (r *Results) SetResult(res driver.Result) {
	r.result, r.hasResult, r.err = res, true, nil
	r.colOffset = 0
	r.widths = columnWidths(res.Columns, res.Rows)
	r.applyStyles()
	r.rebuild()
	r.table.SetCursor(0)
}

// SetError shows err in place of a table.
func (r *Results) SetError(err error) {
	r.err = err
	r.hasResult = false
	r.table.SetRows(nil)
	r.table.SetColumns(nil)
}

// Result returns the shown result.
func (r *Results) Result() (driver.Result, bool) {
	return r.result, r.hasResult
}

// Cursor returns the selected row index.
func (r *Results) Cursor() int {
	return r.table.Cursor()
}

// columnWidths sizes each column to its widest cell, within bounds.
func columnWidths(cols []string, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(max(widths[i], MinColumnWidth), MaxColumnWidth)
	}
	return widths
}

// rebuild loads the visible columns, starting at colOffset, into the table.
func (r *Results) rebuild() {
	cols := r.result.Columns[r.colOffset:]
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c, Width: r.widths[r.colOffset+i]}
	}

	rows := make([]table.Row, len(r.result.Rows))
	for i, row := range r.result.Rows {
		if r.colOffset < len(row) {
			rows[i] = table.Row(row[r.colOffset:])
		} else {
			rows[i] = table.Row{}
		}
	}

	cursor := r.table.Cursor()
	// Rows must be cleared before columns shrink, or the table indexes
	// past the new column count.
	r.table.SetRows(nil)
	r.table.SetColumns(columns)
	r.table.SetRows(rows)
	r.table.SetCursor(cursor)
}

func (r *Results) moveRow(delta int) {
	n := len(r.result.Rows)
	if n == 0 {
		return
	}
	r.table.SetCursor(((r.table.Cursor()+delta)%n + n) % n)
}

func (r *Results) shiftColumns(delta int) {
	if !r.hasResult || len(r.result.Columns) == 0 {
		return
	}
	next := min(max(r.colOffset+delta, 0), len(r.result.Columns)-1)
	if next != r.colOffset {
		r.colOffset = next
		r.rebuild()
	}
}

func (r *Results) copyRow() Command {
	if !r.hasResult || len(r.result.Rows) == 0 {
		return Status("No row to copy")
	}
	row := r.result.Rows[r.table.Cursor()]
	if err := r.copy(strings.Join(row, "\t")); err != nil {
		return Command{Kind: CmdStatus, Text: "Copy failed: " + err.Error(), IsError: true}
	}
	return Status(fmt.Sprintf("Copied row %d", r.table.Cursor()+1))
}

// HandleActiveKey handles keys while the results are active.
func (r *Results) HandleActiveKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch msg.String() {
	case "enter":
		return None(), nav.StartEditing(r.ID())
	case "up", "k":
		return None(), nav.ActivatePane(navigation.Workspace)
	case "y":
		return r.copyRow(), nil
	}
	return None(), nil
}

// HandleEditingKey handles keys while the results are editing.
func (r *Results) HandleEditingKey(msg tea.KeyMsg, nav *navigation.Manager) (Command, error) {
	switch msg.String() {
	case "esc":
		return None(), nav.StopEditing(r.ID())
	case "up", "k":
		r.moveRow(-1)
	case "down", "j":
		r.moveRow(1)
	case "pgup":
		r.table.MoveUp(r.table.Height())
	case "pgdown":
		r.table.MoveDown(r.table.Height())
	case "home", "g":
		r.table.GotoTop()
	case "end", "G":
		r.table.GotoBottom()
	case "left", "h":
		r.shiftColumns(-1)
	case "right", "l":
		r.shiftColumns(1)
	case "y":
		return r.copyRow(), nil
	}
	return None(), nil
}

// HandleClick selects the clicked row while editing.
func (r *Results) HandleClick(msg tea.MouseMsg, info navigation.PaneInfo) (Command, bool) {
	if info.Focus != navigation.Editing || !r.hasResult {
		return None(), false
	}
	inner := r.area.Inner(1)
	// The header takes two rows: titles and the underline.
	line := msg.Y - inner.Y - 2
	if !inner.Contains(msg.X, msg.Y) || line < 0 {
		return None(), false
	}

	// The table scrolls so the cursor stays in view; derive the first
	// visible row from the cursor position.
	visible := max(r.table.Height(), 1)
	first := max(r.table.Cursor()-visible+1, 0)
	idx := first + line
	if idx >= len(r.result.Rows) {
		return None(), false
	}
	r.table.SetCursor(idx)
	return None(), true
}

func (r *Results) HandleScroll(delta int) {
	if delta < 0 {
		r.table.MoveUp(-delta)
	} else {
		r.table.MoveDown(delta)
	}
}

// Hints lists the result keys for the footer.
func (r *Results) Hints(focus navigation.FocusType) []Hint {
	if focus == navigation.Editing {
		return []Hint{
			{Key: "↑/↓", Desc: "row"},
			{Key: "←/→", Desc: "columns"},
			{Key: "y", Desc: "copy row"},
			{Key: "Esc", Desc: "done"},
		}
	}
	return []Hint{
		{Key: "Enter", Desc: "browse"},
		{Key: "y", Desc: "copy row"},
		{Key: "↑", Desc: "workspace"},
	}
}

// Info is the text shown in the top border.
func (r *Results) Info() string {
	if !r.hasResult {
		return ""
	}
	ms := r.result.Elapsed.Milliseconds()
	if len(r.result.Columns) == 0 {
		return fmt.Sprintf("Query time: %dms | %d rows affected", ms, r.result.RowsAffected)
	}
	return fmt.Sprintf("Query time: %dms | %d rows", ms, len(r.result.Rows))
}

// View renders the results.
func (r *Results) View(info navigation.PaneInfo) string {
	if r.area.Empty() {
		return ""
	}

	var body string
	switch {
	case r.err != nil:
		body = theme.StatusError.Render("Error: ") + lipgloss.NewStyle().Foreground(theme.NeonRed).Render(r.err.Error())
	case !r.hasResult:
		body = theme.TextMutedStyle.Render("Run a query to see results.")
	case len(r.result.Columns) == 0:
		body = theme.StatusInfo.Render(fmt.Sprintf("%d rows affected", r.result.RowsAffected))
	default:
		body = r.table.View()
	}

	opts := theme.PanelTitleOptions{
		Title:         "RESULTS",
		Info:          r.Info(),
		ScrollPercent: -1,
	}
	if r.hasResult && r.colOffset > 0 {
		opts.BottomHints = fmt.Sprintf("columns %d-%d", r.colOffset+1, len(r.result.Columns))
	}
	return theme.RenderPanelWithTitle(body, opts, r.area.Width, r.area.Height, info.Focus)
}

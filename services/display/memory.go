package display

// Memory is an in-memory character LCD for host builds and tests. It keeps
// the cell contents like the real controller: writes land at the cursor and
// run off the end of a row silently.
type Memory struct {
	Cols, Rows uint8
	Clears     int

	cells    [][]byte
	col, row int
}

func NewMemory(cols, rows uint8) *Memory {
	m := &Memory{Cols: cols, Rows: rows}
	m.ClearDisplay()
	m.Clears = 0
	return m
}

func (m *Memory) SetCursor(x, y uint8) {
	m.col, m.row = int(x), int(y)
}

func (m *Memory) Print(data []byte) {
	if m.row < 0 || m.row >= len(m.cells) {
		return
	}
	line := m.cells[m.row]
	for _, b := range data {
		if m.col >= len(line) {
			return
		}
		line[m.col] = b
		m.col++
	}
}

func (m *Memory) ClearDisplay() {
	m.cells = make([][]byte, m.Rows)
	for i := range m.cells {
		m.cells[i] = make([]byte, m.Cols)
		for j := range m.cells[i] {
			m.cells[i][j] = ' '
		}
	}
	m.col, m.row = 0, 0
	m.Clears++
}

// Line returns row y as shown on the glass.
func (m *Memory) Line(y int) string {
	if y < 0 || y >= len(m.cells) {
		return ""
	}
	return string(m.cells[y])
}

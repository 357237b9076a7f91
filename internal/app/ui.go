package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scriv/internal/engine/history"
)

// handleKey dispatches a key event. Returning ErrQuit ends the main loop.
func (a *App) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return ErrQuit

	case tcell.KeyCtrlZ:
		a.undo()
	case tcell.KeyCtrlY:
		a.redo()
	case tcell.KeyCtrlS:
		a.saveSession()

	case tcell.KeyLeft:
		a.moveLeft()
	case tcell.KeyRight:
		a.moveRight()
	case tcell.KeyUp:
		a.moveVertical(-1)
	case tcell.KeyDown:
		a.moveVertical(1)
	case tcell.KeyHome:
		a.cursor = a.lineStart(a.cursor)
	case tcell.KeyEnd:
		a.cursor = a.lineEnd(a.cursor)

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.deleteBackward()
	case tcell.KeyDelete:
		a.deleteForward()
	case tcell.KeyEnter:
		a.insert("\n")
	case tcell.KeyTab:
		a.insert("\t")

	case tcell.KeyRune:
		a.insert(string(ev.Rune()))
	}

	return nil
}

func (a *App) insert(text string) {
	if err := a.eng.Insert(a.cursor, text); err != nil {
		a.setStatus(fmt.Sprintf("insert failed: %v", err))
		return
	}
	a.cursor += len(text)
	a.describeLast()
}

func (a *App) deleteBackward() {
	text := a.eng.Text()
	if a.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(text[:a.cursor])
	if err := a.eng.Delete(a.cursor-size, size); err != nil {
		a.setStatus(fmt.Sprintf("delete failed: %v", err))
		return
	}
	a.cursor -= size
	a.describeLast()
}

func (a *App) deleteForward() {
	text := a.eng.Text()
	if a.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[a.cursor:])
	if err := a.eng.Delete(a.cursor, size); err != nil {
		a.setStatus(fmt.Sprintf("delete failed: %v", err))
		return
	}
	a.describeLast()
}

func (a *App) undo() {
	info, _ := a.eng.PeekUndo()
	if err := a.eng.Undo(); err != nil {
		if errors.Is(err, history.ErrNothingToUndo) {
			a.setStatus("nothing to undo")
		} else {
			a.setStatus(fmt.Sprintf("undo failed: %v", err))
		}
		return
	}
	a.clampCursor()
	a.setStatus(fmt.Sprintf("undid: %s", info.Description))
}

func (a *App) redo() {
	info, _ := a.eng.PeekRedo()
	if err := a.eng.Redo(); err != nil {
		if errors.Is(err, history.ErrNothingToRedo) {
			a.setStatus("nothing to redo")
		} else {
			a.setStatus(fmt.Sprintf("redo failed: %v", err))
		}
		return
	}
	a.clampCursor()
	a.setStatus(fmt.Sprintf("redid: %s", info.Description))
}

func (a *App) describeLast() {
	if info, ok := a.eng.PeekUndo(); ok {
		a.setStatus(info.Description)
	}
}

// clampCursor keeps the cursor inside the document after undo/redo changed
// its length.
func (a *App) clampCursor() {
	if n := a.eng.Len(); a.cursor > n {
		a.cursor = n
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) moveLeft() {
	if a.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(a.eng.Text()[:a.cursor])
	a.cursor -= size
}

func (a *App) moveRight() {
	text := a.eng.Text()
	if a.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[a.cursor:])
	a.cursor += size
}

// moveVertical moves the cursor delta lines, keeping the column where the
// target line is long enough.
func (a *App) moveVertical(delta int) {
	text := a.eng.Text()
	line, col := offsetToLineCol(text, a.cursor)

	target := line + delta
	lines := strings.Split(text, "\n")
	if target < 0 || target >= len(lines) {
		return
	}
	if col > len(lines[target]) {
		col = len(lines[target])
	}
	a.cursor = lineColToOffset(lines, target, col)
}

func (a *App) lineStart(pos int) int {
	text := a.eng.Text()
	start := strings.LastIndexByte(text[:pos], '\n')
	return start + 1
}

func (a *App) lineEnd(pos int) int {
	text := a.eng.Text()
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return len(text)
	}
	return pos + end
}

// offsetToLineCol converts a byte offset to zero-based line and column.
func offsetToLineCol(text string, pos int) (int, int) {
	line := strings.Count(text[:pos], "\n")
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	return line, pos - start
}

// lineColToOffset converts zero-based line and column to a byte offset.
func lineColToOffset(lines []string, line, col int) int {
	offset := 0
	for i := 0; i < line; i++ {
		offset += len(lines[i]) + 1
	}
	return offset + col
}

// draw renders the document with a status line at the bottom.
func (a *App) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if height < 2 {
		a.screen.Show()
		return
	}
	textRows := height - 1

	lines := a.eng.Lines()
	curLine, curCol := offsetToLineCol(a.eng.Text(), a.cursor)

	// Scroll to keep the cursor visible
	if curLine < a.top {
		a.top = curLine
	}
	if curLine >= a.top+textRows {
		a.top = curLine - textRows + 1
	}

	style := tcell.StyleDefault
	for row := 0; row < textRows; row++ {
		idx := a.top + row
		if idx >= len(lines) {
			break
		}
		col := 0
		for _, r := range lines[idx] {
			if col >= width {
				break
			}
			a.screen.SetContent(col, row, r, nil, style)
			col++
		}
	}

	a.drawStatus(width, height-1, curLine, curCol)

	// Screen column counts runes, the cursor offset counts bytes.
	screenCol := 0
	if curLine < len(lines) {
		screenCol = utf8.RuneCountInString(lines[curLine][:curCol])
	}
	a.screen.ShowCursor(screenCol, curLine-a.top)
	a.screen.Show()
}

// drawStatus renders the inverted status line.
func (a *App) drawStatus(width, row, line, col int) {
	stats := a.eng.Stats()
	left := fmt.Sprintf(" %d:%d  undo:%d redo:%d ", line+1, col+1, a.eng.UndoCount(), a.eng.RedoCount())
	msg := a.status
	if stats.ContentLength == 0 && msg == "" {
		msg = "empty document"
	}

	style := tcell.StyleDefault.Reverse(true)
	text := left + "| " + msg
	col = 0
	for _, r := range text {
		if col >= width {
			break
		}
		a.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		a.screen.SetContent(col, row, ' ', nil, style)
	}
}

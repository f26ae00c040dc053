package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
)

// boardDimensions returns the rendered width and height of a size×size grid.
func boardDimensions(size int) (w, h int) {
	return size*cellWidth + 1, size*cellHeight + 1
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := boardDimensions(g.cfg.Size)
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, core.NewRect(boardX, boardY, boardW, boardH))
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score and best score.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.Title()
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.board.Score()))

	best := fmt.Sprintf("Best: %d", g.board.MaxScore())
	dst.DrawText(core.Clamp(boardX+boardW-len(best), boardX, g.screenW), 1, best)

	info := fmt.Sprintf("%dx%d  Moves: %d", g.cfg.Size, g.cfg.Size, g.moves)
	dst.DrawTextColored(boardX+(boardW-len(info))/2, 2, info, core.ColorGray)
}

// renderBoard draws the grid with the top board row first.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	size := g.cfg.Size
	for y := 0; y < size+1; y++ {
		for x := 0; x < size+1; x++ {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == size:
				corner = '┐'
			case y == size && x == 0:
				corner = '└'
			case y == size && x == size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < size {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < size {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for y := 0; y < size; y++ {
		row := size - 1 - y
		for col := 0; col < size; col++ {
			t := g.board.Tile(col, row)
			if t == nil {
				continue
			}

			valStr := strconv.Itoa(t.Value())
			padLeft := max((cellWidth-1-len(valStr))/2, 0)
			cellX := boardX + col*cellWidth + 1
			cellY := boardY + y*cellHeight + 1
			dst.DrawTextColored(cellX+padLeft, cellY, valStr, core.TileColor(t.Value()))
		}
	}
}

// renderOverlays draws the game over / win box over the board.
func (g *Game) renderOverlays(dst *core.Screen, area core.Rect) {
	switch {
	case g.board.Won():
		drawOverlay(dst, area, "YOU WIN!", fmt.Sprintf("Score: %d", g.board.Score()), "Press R to restart")
	case g.board.GameOver():
		drawOverlay(dst, area, "GAME OVER", fmt.Sprintf("Max tile: %d", g.board.MaxTile()), "Press R to restart")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := area.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	centerX, _ := box.Center()
	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/HJKL: Move | R: Restart | Q: Quit"
}

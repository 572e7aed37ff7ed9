package gemfall

import (
	"fmt"

	"github.com/vovakirdan/tui-gemfall/internal/core"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/engine"
)

const cellPitch = 2 // gem plus one spacer column

// gemRunes maps gem kinds to display runes. Indexes beyond the slice wrap,
// so any kind count renders.
var gemRunes = []rune{'●', '◆', '■', '▲', '♥', '★', '⬢'}

var gemColors = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorYellow,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorOrange,
}

func gemRune(k engine.Kind) rune {
	return gemRunes[int(k)%len(gemRunes)]
}

func gemColor(k engine.Kind) core.Color {
	return gemColors[int(k)%len(gemColors)]
}

// brightVariant maps a gem color to its bright counterpart for the
// just-moved highlight. Orange has no bright pair and stays as is.
func brightVariant(c core.Color) core.Color {
	switch c {
	case core.ColorRed:
		return core.ColorBrightRed
	case core.ColorGreen:
		return core.ColorBrightGreen
	case core.ColorYellow:
		return core.ColorBrightYellow
	case core.ColorBlue:
		return core.ColorBrightBlue
	case core.ColorMagenta:
		return core.ColorBrightMagenta
	case core.ColorCyan:
		return core.ColorBrightCyan
	default:
		return c
	}
}

func dirArrow(d engine.Dir) rune {
	switch d {
	case engine.DirDown:
		return '↓'
	case engine.DirLeft:
		return '←'
	case engine.DirUp:
		return '↑'
	default:
		return '→'
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	board := g.session.Board()
	boardW := board.Cols()*cellPitch + 3 // borders plus inner padding
	boardH := board.Rows() + 2
	hudHeight := 3

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	x := (g.screenW - len(msg)) / 2
	y := g.screenH / 2
	dst.DrawText(x, y, msg)

	hint := "Please resize terminal"
	hintX := (g.screenW - len(hint)) / 2
	dst.DrawText(hintX, y+1, hint)
}

// renderHUD draws the score, rotation budget, and level info.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := "GEMFALL"
	titleX := boardX + (boardW-len(title))/2
	dst.DrawText(titleX, 0, title)

	scoreStr := fmt.Sprintf("Score: %d", g.Score())
	dst.DrawText(boardX, 1, scoreStr)

	rotStr := fmt.Sprintf("Rotations: %d %c", g.session.RotationsLeft(), dirArrow(g.session.GravityDir()))
	rotX := boardX + boardW - len(rotStr) - 1
	if rotX < boardX {
		rotX = boardX
	}
	dst.DrawText(rotX, 1, rotStr)

	var infoStr string
	if g.mode == ModeCampaign {
		level := GetLevel(g.levelIndex)
		infoStr = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, LevelCount(), level.Target)
	} else {
		infoStr = fmt.Sprintf("Zen  %s  %s", g.board.Name, g.board.Size())
	}
	infoX := boardX + (boardW-len(infoStr))/2
	dst.DrawText(infoX, 2, infoStr)
}

// renderBoard draws the bordered grid with gems, cursor, and selection.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	board := g.session.Board()

	boardW := board.Cols()*cellPitch + 3
	boardH := board.Rows() + 2
	dst.DrawBox(core.Rect{X: boardX, Y: boardY, W: boardW, H: boardH})

	sel, hasSel := g.session.Selection()

	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			x := boardX + 2 + c*cellPitch
			y := boardY + 1 + r

			if !board.IsPlayable(r, c) {
				dst.SetCell(x, y, '░', core.ColorGray)
				continue
			}

			t := board.Get(r, c)
			if t == nil {
				dst.SetCell(x, y, '·', core.ColorGray)
			} else {
				color := gemColor(t.Kind)
				if _, moved := g.recentMoves[[2]int{r, c}]; moved {
					color = brightVariant(color)
				}
				dst.SetCell(x, y, gemRune(t.Kind), color)
			}

			if hasSel && sel.R == r && sel.C == c {
				dst.SetCell(x-1, y, '(', core.ColorBrightYellow)
				dst.SetCell(x+1, y, ')', core.ColorBrightYellow)
			}
		}
	}

	// Cursor markers are drawn last so they win over selection markers.
	cx := boardX + 2 + g.cursorC*cellPitch
	cy := boardY + 1 + g.cursorR
	dst.SetCell(cx-1, cy, '[', core.ColorBrightWhite)
	dst.SetCell(cx+1, cy, ']', core.ColorBrightWhite)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.levelCleared {
		level := GetLevel(g.levelIndex)
		clearedStr := fmt.Sprintf("%s cleared!", level.Name)
		if g.levelIndex >= LevelCount()-1 {
			g.drawOverlay(dst, centerX, centerY, clearedStr, "Final level complete!")
		} else {
			nextStr := fmt.Sprintf("Next: %s", Levels[g.levelIndex+1].Name)
			g.drawOverlay(dst, centerX, centerY, clearedStr, nextStr)
		}
		return
	}

	if g.won {
		g.drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", fmt.Sprintf("Final score: %d", g.Score()), "Press R to restart")
		return
	}

	if g.gameOver {
		g.drawOverlay(dst, centerX, centerY, "NO MOVES LEFT", fmt.Sprintf("Score: %d", g.Score()), "Press R to restart")
		return
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}

	dst.DrawBox(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH})

	for i, line := range lines {
		x := centerX - len(line)/2
		dst.DrawText(x, boxY+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space/Enter: Select | [ ]: Rotate | P: Pause | R: Restart | Q: Quit"
}

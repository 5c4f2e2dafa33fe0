package loop

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/draw"
	"github.com/tomz197/mathblaster/internal/game"
	"github.com/tomz197/mathblaster/internal/loop/config"
	"github.com/tomz197/mathblaster/internal/object"
)

// archetypeGlyphs maps archetype names to their map glyph.
var archetypeGlyphs = func() map[string]rune {
	m := make(map[string]rune, len(object.Archetypes))
	for _, a := range object.Archetypes {
		m[a.Name] = a.Glyph
	}
	return m
}()

const (
	fleeingGlyph = '*'
	shotGlyph    = '|'
	basicGlyph   = '\''
)

// updateScreen handles terminal resize, clamping to the max render size.
// On actual size changes the terminal is cleared to remove leftover text
// outside the new frame.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	if cols != s.frame.Cols() || rows != s.frame.Rows() {
		draw.ClearScreen(s.writer)
		s.frame.Resize(cols, rows)
	}
	s.frame.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render size and
// computes the offset that centers the frame.
func clampTermSize(termWidth, termHeight int) (cols, rows, offsetCol, offsetRow int) {
	cols = min(termWidth, config.MaxTermWidth)
	rows = min(termHeight, config.MaxTermHeight)
	offsetCol = max((termWidth-cols)/2, 0)
	offsetRow = max((termHeight-rows)/2, 0)
	return
}

// render draws the current view and flushes the changed rows.
func (s *Session) render() error {
	s.compose(time.Now())
	return s.frame.Render(s.writer)
}

// compose draws the current view into the frame.
func (s *Session) compose(now time.Time) {
	f := s.frame
	f.Clear()

	if f.Cols() < config.MinTermWidth || f.Rows() < config.MinTermHeight {
		f.TextCentered(f.Rows()/2, "Terminal too small")
		return
	}

	switch s.screen {
	case ScreenStart:
		s.drawStart()
	case ScreenPlaying:
		s.drawPlaying(now)
	case ScreenShutdown:
		mid := f.Rows() / 2
		f.TextCentered(mid-1, "SERVER SHUTTING DOWN")
		f.TextCentered(mid+1, fmt.Sprintf("Your progress has been saved. Closing in %d...",
			int(math.Ceil(max(s.shutdownTimer, 0)))))
		return
	}

	if s.inactive {
		mid := f.Rows() / 2
		f.TextCentered(mid+4, "Are you still there? Press any key to stay connected.")
	}
}

func (s *Session) drawStart() {
	f := s.frame
	top := f.Rows()/2 - 7
	lines := []string{
		"M A T H   B L A S T E R",
		"",
		"Answer problems to earn ammunition, then defend the field.",
		"",
		"a/d or arrows  move        space  fire",
		"0-9  select tier           [ ]    down/upgrade",
		"t    triple shot           m      math mode",
		"",
		"In math mode: type the answer and press Enter,",
		"s skips, [ ] change the tier you earn for, Esc returns.",
		"",
		"Press Enter to start, q to quit",
	}
	for i, l := range lines {
		f.TextCentered(top+i, l)
	}
	if s.opts.Username != "" {
		f.TextCentered(top+len(lines)+1, fmt.Sprintf("Playing as %s  best level %d", s.opts.Username, s.lifetime.HighestLevel))
	}
}

func (s *Session) drawPlaying(now time.Time) {
	s.drawHUD()
	s.drawField()
	s.drawFooter(now)

	switch s.game.Phase() {
	case game.PhaseMath:
		s.drawMathPanel()
	case game.PhaseGameOver:
		s.drawGameOver()
	}
}

func (s *Session) drawHUD() {
	f := s.frame
	h := s.hud

	f.Text(1, 0, fmt.Sprintf("SCORE %d   LEVEL %d   LIVES %s", h.Score, h.Level, strings.Repeat("A ", h.Lives)))

	weapon := fmt.Sprintf("TIER %d  %s", h.Tier, ammoText(h.Tier, h.Ammo[h.Tier]))
	if s.game.Weapon.Triple() {
		weapon += "  TRIPLE"
	}
	f.TextRight(0, 1, weapon)

	var b strings.Builder
	for t := range ammo.NumTiers {
		if t > 0 {
			b.WriteString("  ")
		}
		marker := ' '
		if t == h.Tier {
			marker = '>'
		}
		fmt.Fprintf(&b, "%c%d:%s", marker, t, ammoText(t, h.Ammo[t]))
	}
	f.Text(0, 1, b.String())
	f.Text(0, 2, strings.Repeat("-", f.Cols()))
}

func ammoText(tier, count int) string {
	if tier == 0 {
		return "inf"
	}
	return fmt.Sprintf("%d", count)
}

// fieldRows returns the first frame row of the playfield and its height.
func (s *Session) fieldRows() (top, height int) {
	return config.HUDRows, s.frame.Rows() - config.HUDRows - config.FooterRows
}

// toFrame maps playfield coordinates to a frame cell.
func (s *Session) toFrame(x, y float64) (col, row int) {
	top, height := s.fieldRows()
	fw := s.game.Field
	col = int(x / fw.Width * float64(s.frame.Cols()))
	row = top + int(y/fw.Height*float64(height))
	return col, row
}

func (s *Session) drawField() {
	f := s.frame
	top, height := s.fieldRows()
	inField := func(row int) bool { return row >= top && row < top+height }

	for _, e := range s.game.Enemies {
		col, row := s.toFrame(e.X, e.Y)
		if !inField(row) {
			continue
		}
		glyph := archetypeGlyphs[e.Archetype]
		if e.Fleeing {
			glyph = fleeingGlyph
		}
		f.Set(col, row, glyph)
		if !e.Fleeing && e.MaxShield > 1 {
			f.Text(col+1, row, fmt.Sprintf("%d", e.Shield))
		}
	}

	for _, p := range s.game.Projectiles {
		col, row := s.toFrame(p.X, p.Y)
		if !inField(row) {
			continue
		}
		glyph := shotGlyph
		if p.Tier == 0 {
			glyph = basicGlyph
		}
		f.Set(col, row, glyph)
	}

	ship := s.game.Ship
	col, row := s.toFrame(ship.X, ship.Y)
	row = min(row, top+height-1)
	f.Text(col-1, row, "/A\\")
}

func (s *Session) drawFooter(now time.Time) {
	f := s.frame
	row := f.Rows() - 1
	if s.message != "" && now.Before(s.messageUntil) {
		f.TextCentered(row, s.message)
		return
	}
	if s.game.Phase() == game.PhaseMath {
		f.Text(1, row, "Enter submit   s skip   [ ] change tier   Esc back")
		return
	}
	f.Text(1, row, "m math   0-9 tier   t triple   q quit")
}

func (s *Session) drawMathPanel() {
	f := s.frame
	const width = 52
	left := (f.Cols() - width) / 2
	top := f.Rows()/2 - 8

	lines := []string{
		fmt.Sprintf("EARNING TIER %d   (%d rounds banked)", s.game.Practice.Tier(), s.hud.Ammo[s.game.Practice.Tier()]),
		"",
	}
	if p, ok := s.game.Practice.Active(); ok {
		desc := p.Description
		if desc == "" {
			desc = p.LevelName
		}
		lines = append(lines,
			desc,
			"",
			p.Question+" = ?",
			"",
			"> "+string(s.answer)+"_",
		)
	} else {
		lines = append(lines, "", "", "Fetching problem...", "", "")
	}
	lines = append(lines, "", "Recent:")
	for _, o := range s.game.Practice.Outcomes() {
		var status string
		switch {
		case o.Skipped:
			status = "skipped"
		case o.Correct:
			status = fmt.Sprintf("+%d  %.1fs", o.Reward, o.Latency)
		default:
			status = "wrong"
		}
		lines = append(lines, fmt.Sprintf("  T%d  %-20s %s", o.Tier, o.Question, status))
	}

	border := "+" + strings.Repeat("-", width-2) + "+"
	f.Text(left, top, border)
	for i, l := range lines {
		row := top + 1 + i
		f.Text(left, row, "|"+strings.Repeat(" ", width-2)+"|")
		f.Text(left+2, row, l)
	}
	f.Text(left, top+1+len(lines), border)
}

func (s *Session) drawGameOver() {
	f := s.frame
	mid := f.Rows() / 2
	f.TextCentered(mid-2, "G A M E   O V E R")
	f.TextCentered(mid, fmt.Sprintf("Score %d   Level %d   Destroyed %d", s.hud.Score, s.hud.Level, s.hud.Destroyed))
	f.TextCentered(mid+2, "Press r to play again, q to quit")
}

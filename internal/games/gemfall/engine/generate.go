package engine

// newTile mints a tile with a session-unique ID.
func (s *Session) newTile(k Kind) *Tile {
	s.nextID++
	return &Tile{ID: s.nextID, Kind: k}
}

// generateBoard fills the board so that no match exists and at least one
// valid move does. Whole-board attempts are bounded; if they exhaust, the
// last filled arrangement stays in place as a best-effort result.
func (s *Session) generateBoard() {
	for attempt := 0; attempt < s.cfg.BoardRetries; attempt++ {
		s.board.Clear()
		s.fillGuarded()
		if HasValidMove(s.board) {
			return
		}
	}
}

// fillGuarded fills every playable cell row-major, rejecting kinds that
// would complete a run. After the local retry ceiling the kind is forced
// to (kind+1) mod K so the fill always terminates.
func (s *Session) fillGuarded() {
	for r := 0; r < s.board.Rows(); r++ {
		for c := 0; c < s.board.Cols(); c++ {
			if !s.board.IsPlayable(r, c) {
				continue
			}
			k := Kind(s.rng.Intn(s.cfg.Kinds))
			for i := 0; i < s.cfg.FillRetries && WouldMatch(s.board, r, c, k); i++ {
				k = Kind(s.rng.Intn(s.cfg.Kinds))
			}
			if WouldMatch(s.board, r, c, k) {
				k = (k + 1) % Kind(s.cfg.Kinds)
			}
			s.board.Set(r, c, s.newTile(k))
		}
	}
}

// fillEmpties fills every still-empty playable slot with a fresh tile of a
// uniformly random kind. Unlike generation there is no anti-match guard;
// the caller's rescan treats any accidental match as another cascade step.
func (s *Session) fillEmpties() {
	for r := 0; r < s.board.Rows(); r++ {
		for c := 0; c < s.board.Cols(); c++ {
			if s.board.IsPlayable(r, c) && s.board.Get(r, c) == nil {
				s.board.Set(r, c, s.newTile(Kind(s.rng.Intn(s.cfg.Kinds))))
			}
		}
	}
}

// shuffle redistributes the kinds of the currently-placed tiles. Each
// attempt Fisher-Yates shuffles the kind list and re-places it row-major
// under the WouldMatch guard; an attempt that would create a match is
// aborted and retried. If every attempt fails, the last shuffled order is
// placed unguarded as a best-effort fallback.
func (s *Session) shuffle() {
	s.selection = nil

	kinds := make([]Kind, 0, s.board.OccupiedCount())
	for r := 0; r < s.board.Rows(); r++ {
		for c := 0; c < s.board.Cols(); c++ {
			if s.board.IsPlayable(r, c) && s.board.Get(r, c) != nil {
				kinds = append(kinds, s.board.Get(r, c).Kind)
			}
		}
	}
	if len(kinds) == 0 {
		return
	}

	for attempt := 0; attempt < s.cfg.ShuffleRetries; attempt++ {
		s.rng.Shuffle(len(kinds), func(i, j int) {
			kinds[i], kinds[j] = kinds[j], kinds[i]
		})
		if s.placeKinds(kinds, true) {
			return
		}
	}
	s.placeKinds(kinds, false)
}

// placeKinds clears the board and re-places the kind list row-major into
// playable cells. With guard set, it aborts on the first placement that
// would create a match and reports failure (the board is left cleared for
// the next attempt; callers always retry or re-place).
func (s *Session) placeKinds(kinds []Kind, guard bool) bool {
	s.board.Clear()
	i := 0
	for r := 0; r < s.board.Rows(); r++ {
		for c := 0; c < s.board.Cols(); c++ {
			if !s.board.IsPlayable(r, c) || i >= len(kinds) {
				continue
			}
			if guard && WouldMatch(s.board, r, c, kinds[i]) {
				return false
			}
			s.board.Set(r, c, s.newTile(kinds[i]))
			i++
		}
	}
	return true
}

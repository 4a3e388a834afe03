package material

// Neon city presets.
var (
	BoardFrame = preset("board_frame", 0.07, 0.1, 0.17, 0.5, 0.48, 0.8, 0, 0, 0)
	BoardLight = preset("board_light", 0.2, 0.28, 0.38, 0.58, 0.34, 0.95, 0.012, 0.016, 0.024)
	BoardDark  = preset("board_dark", 0.06, 0.09, 0.15, 0.52, 0.48, 0.9, 0.004, 0.006, 0.012)

	BoardEdgeCyan = preset("board_edge_cyan", 0.35, 0.95, 1.0, 0.88, 0.07, 1.0, 0.22, 0.34, 0.42)
	BoardEdgePink = preset("board_edge_pink", 1.0, 0.4, 0.82, 0.88, 0.08, 1.0, 0.34, 0.16, 0.28)

	CityBuilding   = preset("city_building", 0.08, 0.1, 0.15, 0.06, 0.72, 0.55, 0, 0, 0)
	CityNeonCyan   = preset("city_neon_cyan", 0.4, 0.92, 1.0, 0.85, 0.07, 1.0, 1.5, 2.0, 2.3)
	CityNeonPink   = preset("city_neon_pink", 1.0, 0.36, 0.78, 0.83, 0.08, 1.0, 1.95, 0.85, 1.6)
	CityNeonPurple = preset("city_neon_purple", 0.78, 0.46, 1.0, 0.85, 0.09, 1.0, 1.1, 0.75, 1.9)
	WetGround      = preset("wet_ground", 0.03, 0.05, 0.08, 0.96, 0.06, 1.0, 0, 0, 0)
	WhitePiece     = preset("white_piece", 0.93, 0.95, 0.98, 0.95, 0.09, 1.0, 0.05, 0.05, 0.06)
	BlackPiece     = preset("black_piece", 0.03, 0.04, 0.06, 0.8, 0.16, 0.98, 0.035, 0.016, 0.04)
	PieceSelection = preset("piece_selection", 1.0, 0.62, 0.2, 0.9, 0.13, 1.0, 0.9, 0.48, 0.18)
	LegalMarker    = preset("legal_marker", 1.0, 0.95, 0.55, 0.82, 0.16, 1.0, 0.65, 0.6, 0.2)
	RainStreak     = preset("rain_streak", 0.55, 0.7, 0.95, 0.08, 0.08, 0.55, 0.2, 0.3, 0.45)
)

// Presets lists every preset in declaration order.
var Presets = []Material{
	BoardFrame, BoardLight, BoardDark, BoardEdgeCyan, BoardEdgePink,
	CityBuilding, CityNeonCyan, CityNeonPink, CityNeonPurple, WetGround,
	WhitePiece, BlackPiece, PieceSelection, LegalMarker, RainStreak,
}

func preset(name string, r, g, b, metallic, roughness, specular, er, eg, eb float32) Material {
	return NewMaterial(
		WithName(name),
		WithAlbedo(r, g, b),
		WithMetallic(metallic),
		WithRoughness(roughness),
		WithSpecular(specular),
		WithEmissive(er, eg, eb),
	)
}

package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Search
	Play
	Pause
	Shuffle
	RepeatOne
	RepeatAll
	Muted
	Volume
	Lua
	Mark
	Link
)

var icons = map[Icon]glyphs{
	Success:   {Plain: "✓", Emoji: "🎉", Nerd: "", Kaomoji: "(ᵔ◡ᵔ)", Squares: "🟩"},
	Fail:      {Plain: "✗", Emoji: "💀", Nerd: "", Kaomoji: "(ಥ﹏ಥ)", Squares: "🟥"},
	Progress:  {Plain: "…", Emoji: "👾", Nerd: "", Kaomoji: "(・_・;)", Squares: "🟪"},
	Search:    {Plain: "?", Emoji: "🔎", Nerd: "", Kaomoji: "(°ロ°)", Squares: "🟦"},
	Play:      {Plain: ">", Emoji: "▶️", Nerd: "", Kaomoji: "(ﾉ◕ヮ◕)ﾉ", Squares: "▶"},
	Pause:     {Plain: "||", Emoji: "⏸️", Nerd: "", Kaomoji: "(－_－)", Squares: "⏸"},
	Shuffle:   {Plain: "S", Emoji: "🔀", Nerd: "", Kaomoji: "(~_~)"},
	RepeatOne: {Plain: "R1", Emoji: "🔂", Nerd: "\U000f0458", Kaomoji: "(1_1)"},
	RepeatAll: {Plain: "R", Emoji: "🔁", Nerd: "\U000f0456", Kaomoji: "(@_@)"},
	Muted:     {Plain: "M", Emoji: "🔇", Nerd: "", Kaomoji: "(x_x)"},
	Volume:    {Plain: "V", Emoji: "🔊", Nerd: "", Kaomoji: "(o_o)"},
	Lua:       {Plain: "lua", Emoji: "🌙", Nerd: "", Kaomoji: "(◕‿◕)", Squares: "🟦"},
	Mark:      {Plain: "*", Emoji: "📌", Nerd: "", Kaomoji: "(*)", Squares: "🟧"},
	Link:      {Plain: "~", Emoji: "🔗", Nerd: "", Kaomoji: "(∞)", Squares: "🟫"},
}
